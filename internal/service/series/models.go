package series

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Options параметры генерации
type Options struct {
	Axis              slotgrid.Axis
	Location          *time.Location
	DelegateToBackend bool // Генерация выполняется бэкендом через пакетный createSeries
}

// CreateRequest правило новой серии
type CreateRequest struct {
	ResourceID       int64
	DurationOptionID int64
	Weekday          time.Weekday
	StartTime        types.TimeString
	SeriesStart      time.Time
	SeriesEnd        *time.Time
	HorizonWeeks     int // 0 - значение по умолчанию
	Customer         domain.Customer
}

// Result итог генерации: частичный успех не является ошибкой
type Result struct {
	Series       *domain.RecurringSeries
	Requested    int
	Created      int
	Skipped      int
	Failed       int
	Delegated    bool
	Reservations []domain.Reservation
	Occurrences  []domain.SeriesOccurrence
}

// Details серия и журнал ее вхождений
type Details struct {
	Series      *domain.RecurringSeries
	Occurrences []domain.SeriesOccurrence
}

func (r *Result) add(o domain.SeriesOccurrence, reservation *domain.Reservation) {
	r.Occurrences = append(r.Occurrences, o)
	switch o.Outcome {
	case domain.OccurrenceCreated:
		r.Created++
		if reservation != nil {
			r.Reservations = append(r.Reservations, *reservation)
		}
	case domain.OccurrenceSkipped:
		r.Skipped++
	case domain.OccurrenceFailed:
		r.Failed++
	}
}
