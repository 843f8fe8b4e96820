package availability

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

type dayPosition int

const (
	dayFuture dayPosition = iota
	dayToday
	dayPast
)

// SlotState состояние одного слота сетки
type SlotState struct {
	Index     int
	StartTime types.TimeString
	Fraction  float64
	HourOpen  bool
	Past      bool
	Reserved  bool
	Bookable  bool
}

// Map карта доступности ресурса на дату. После Build не изменяется:
// обновление происходит заменой карты целиком.
type Map struct {
	ResourceID int64
	Date       time.Time
	Slots      []SlotState

	axis         slotgrid.Axis
	policy       UnreportedHourPolicy
	hours        map[int]bool
	reservations []domain.Reservation
	day          dayPosition
	nowSeconds   int
}

// Axis сетка, по которой построена карта
func (m *Map) Axis() slotgrid.Axis {
	return m.axis
}

// Policy политика для часов без сигнала
func (m *Map) Policy() UnreportedHourPolicy {
	return m.policy
}

// IsToday карта построена на текущую дату
func (m *Map) IsToday() bool {
	return m.day == dayToday
}

// IsHourAvailable сигнал бэкенда для часа, либо значение политики, если час не сообщен
func (m *Map) IsHourAvailable(hour int) bool {
	if available, ok := m.hours[hour]; ok {
		return available
	}
	return m.policy != AssumeClosed
}

// IsReported бэкенд прислал сигнал для часа
func (m *Map) IsReported(hour int) bool {
	_, ok := m.hours[hour]
	return ok
}

// IsPast время начала уже наступило (с точностью до секунды для текущей даты)
func (m *Map) IsPast(start types.TimeString) bool {
	switch m.day {
	case dayPast:
		return true
	case dayToday:
		return start.Minutes()*60 < m.nowSeconds
	default:
		return false
	}
}

// Reservations блокирующие бронирования, отсортированные по времени начала
func (m *Map) Reservations() []domain.Reservation {
	result := make([]domain.Reservation, len(m.reservations))
	copy(result, m.reservations)
	return result
}

// Slot состояние слота по времени начала
func (m *Map) Slot(start types.TimeString) (SlotState, bool) {
	index, err := m.axis.TimeToSlot(start)
	if err != nil {
		return SlotState{}, false
	}
	return m.Slots[index], true
}

// Hours эффективный сигнал по всем часам окна
func (m *Map) Hours() []domain.HourAvailability {
	first := m.axis.Open().Hour()
	last := (m.axis.Close().Minutes() + 59) / 60

	result := make([]domain.HourAvailability, 0, last-first)
	for h := first; h < last; h++ {
		result = append(result, domain.HourAvailability{Hour: h, Available: m.IsHourAvailable(h)})
	}
	return result
}

// overlapping первое блокирующее бронирование, пересекающееся с [start, end)
func (m *Map) overlapping(start, end types.TimeString) (domain.Reservation, bool) {
	for _, r := range m.reservations {
		if r.Overlaps(start, end) {
			return r, true
		}
	}
	return domain.Reservation{}, false
}
