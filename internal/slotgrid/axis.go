package slotgrid

import (
	"fmt"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Axis дискретная сетка слотов одного дня: окно [open, close) с шагом granularity минут.
// Значение неизменяемо и безопасно для конкурентного чтения.
type Axis struct {
	open        int
	close       int
	granularity int
}

// NewAxis создает сетку. Границы окна должны лежать на шаге сетки.
func NewAxis(open, close types.TimeString, granularity int) (Axis, error) {
	if granularity <= 0 {
		return Axis{}, fmt.Errorf("%w: granularity %d", ErrInvalidWindow, granularity)
	}

	openMin, closeMin := open.Minutes(), close.Minutes()
	if openMin < 0 || closeMin < 0 {
		return Axis{}, fmt.Errorf("%w: open=%q close=%q", ErrInvalidWindow, open, close)
	}
	if openMin >= closeMin {
		return Axis{}, fmt.Errorf("%w: open %s is not before close %s", ErrInvalidWindow, open, close)
	}
	if openMin%granularity != 0 || closeMin%granularity != 0 {
		return Axis{}, fmt.Errorf("%w: bounds %s-%s are not multiples of %d minutes", ErrInvalidWindow, open, close, granularity)
	}

	return Axis{open: openMin, close: closeMin, granularity: granularity}, nil
}

// Default сетка 08:00-24:00 с шагом 30 минут
func Default() Axis {
	axis, err := NewAxis(
		types.MustTimeString(domain.DefaultGridOpen),
		types.MustTimeString(domain.DefaultGridClose),
		domain.DefaultGranularityMinutes,
	)
	if err != nil {
		panic(err)
	}
	return axis
}

// Open начало окна
func (a Axis) Open() types.TimeString {
	return minutesToTime(a.open)
}

// Close граница закрытия окна
func (a Axis) Close() types.TimeString {
	return minutesToTime(a.close)
}

// Granularity шаг сетки в минутах
func (a Axis) Granularity() int {
	return a.granularity
}

// SlotCount количество слотов в окне
func (a Axis) SlotCount() int {
	return (a.close - a.open) / a.granularity
}

// TimeToSlot индекс слота, начинающегося в t
func (a Axis) TimeToSlot(t types.TimeString) (int, error) {
	minutes := t.Minutes()
	if minutes < 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidTimeString, t)
	}
	if minutes < a.open || minutes >= a.close {
		return 0, fmt.Errorf("%w: %s", ErrOutOfWindow, t)
	}
	if (minutes-a.open)%a.granularity != 0 {
		return 0, fmt.Errorf("%w: %s", ErrOffGrid, t)
	}
	return (minutes - a.open) / a.granularity, nil
}

// SlotToTime время начала слота
func (a Axis) SlotToTime(index int) (types.TimeString, error) {
	if index < 0 || index >= a.SlotCount() {
		return "", fmt.Errorf("%w: slot %d", ErrOutOfWindow, index)
	}
	return minutesToTime(a.open + index*a.granularity), nil
}

// SlotToFraction доля окна до начала слота, используется только для раскладки
func (a Axis) SlotToFraction(index int) (float64, error) {
	if index < 0 || index >= a.SlotCount() {
		return 0, fmt.Errorf("%w: slot %d", ErrOutOfWindow, index)
	}
	return float64(index) / float64(a.SlotCount()), nil
}

// Times все времена начала слотов по порядку
func (a Axis) Times() []types.TimeString {
	times := make([]types.TimeString, 0, a.SlotCount())
	for m := a.open; m < a.close; m += a.granularity {
		times = append(times, minutesToTime(m))
	}
	return times
}

// Contains проверяет, что интервал [start, end) целиком внутри окна
func (a Axis) Contains(start, end types.TimeString) bool {
	s, e := start.Minutes(), end.Minutes()
	return s >= a.open && e <= a.close && s < e
}

// ValidateDuration длительность должна быть положительной и кратной шагу
func (a Axis) ValidateDuration(minutes int) error {
	if minutes <= 0 || minutes%a.granularity != 0 {
		return fmt.Errorf("%w: %d minutes with %d-minute grid", ErrInvalidDuration, minutes, a.granularity)
	}
	return nil
}

// ValidateCatalogue проверяет все активные опции каталога
func (a Axis) ValidateCatalogue(options []domain.DurationOption) error {
	for _, opt := range options {
		if !opt.IsActive {
			continue
		}
		if err := a.ValidateDuration(opt.DurationMinutes); err != nil {
			return fmt.Errorf("duration option id=%d: %w", opt.ID, err)
		}
	}
	return nil
}

func minutesToTime(minutes int) types.TimeString {
	// minutes всегда в пределах 0..1440 для корректной сетки
	t, _ := types.NewTimeStringFromMinutes(minutes)
	return t
}
