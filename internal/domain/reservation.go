package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationNoShow    ReservationStatus = "no_show"
)

// IsValid проверяет, что статус известен
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationActive, ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// Reservation бронирование ресурса в локальном времени арендатора.
// Date содержит только календарный день, время хранится отдельно в StartTime/EndTime.
type Reservation struct {
	ID               int64
	ResourceID       int64
	DurationOptionID int64
	Date             time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	Status           ReservationStatus
}

// IsActive бронирование блокирует интервал (все статусы, кроме отмененного)
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationCancelled
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end)
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return start.IsBefore(r.EndTime) && end.IsAfter(r.StartTime)
}

// Customer данные клиента для бронирования
type Customer struct {
	Name  string
	Phone string
	Email string
}

// SameDate сравнивает календарные дни без учета времени и зоны
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly обрезает время, оставляя полночь того же дня в зоне значения
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
