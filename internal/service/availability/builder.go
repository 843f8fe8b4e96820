package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
)

// Input исходные данные для построения карты
type Input struct {
	ResourceID   int64
	Date         time.Time
	Now          time.Time // текущий момент в часовом поясе арендатора
	Signal       []domain.HourAvailability
	Reservations []domain.Reservation
}

// Builder строит карты доступности. Не имеет состояния, кроме конфигурации.
type Builder struct {
	axis   slotgrid.Axis
	policy UnreportedHourPolicy
}

// NewBuilder создает построитель карт
func NewBuilder(axis slotgrid.Axis, policy UnreportedHourPolicy) *Builder {
	if policy == "" {
		policy = AssumeOpen
	}
	return &Builder{axis: axis, policy: policy}
}

// Axis сетка построителя
func (b *Builder) Axis() slotgrid.Axis {
	return b.axis
}

// Build объединяет сигнал бэкенда, известные бронирования и маску прошедшего времени.
// Результат зависит только от входа: одинаковые входы дают одинаковые карты.
func (b *Builder) Build(in Input) *Map {
	m := &Map{
		ResourceID: in.ResourceID,
		Date:       domain.DateOnly(in.Date),
		axis:       b.axis,
		policy:     b.policy,
		hours:      make(map[int]bool, len(in.Signal)),
		day:        positionOf(in.Date, in.Now),
		nowSeconds: in.Now.Hour()*3600 + in.Now.Minute()*60 + in.Now.Second(),
	}

	for _, h := range in.Signal {
		m.hours[h.Hour] = h.Available
	}

	m.reservations = blocking(in)

	times := b.axis.Times()
	m.Slots = make([]SlotState, len(times))
	for i, start := range times {
		fraction, _ := b.axis.SlotToFraction(i)
		end, _ := start.AddMinutes(b.axis.Granularity())
		_, reserved := m.overlapping(start, end)

		m.Slots[i] = SlotState{
			Index:     i,
			StartTime: start,
			Fraction:  fraction,
			HourOpen:  m.IsHourAvailable(start.Hour()),
			Past:      m.IsPast(start),
			Reserved:  reserved,
		}
		m.Slots[i].Bookable = Check(m, start, b.axis.Granularity()).Feasible
	}

	return m
}

// blocking отбирает неотмененные бронирования ресурса на дату карты
func blocking(in Input) []domain.Reservation {
	result := make([]domain.Reservation, 0, len(in.Reservations))
	for _, r := range in.Reservations {
		if r.ResourceID != in.ResourceID || !domain.SameDate(r.Date, in.Date) || !r.IsActive() {
			continue
		}
		if r.StartTime.Validate() != nil || r.EndTime.Validate() != nil || !r.StartTime.IsBefore(r.EndTime) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartTime.Minutes() != result[j].StartTime.Minutes() {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

func positionOf(date, now time.Time) dayPosition {
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()

	switch {
	case dy == ny && dm == nm && dd == nd:
		return dayToday
	case dy < ny || (dy == ny && (dm < nm || (dm == nm && dd < nd))):
		return dayPast
	default:
		return dayFuture
	}
}
