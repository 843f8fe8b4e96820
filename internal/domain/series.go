package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// RecurringSeries еженедельное правило бронирования.
// Удаление логическое (IsActive=false), созданные бронирования остаются у бэкенда.
type RecurringSeries struct {
	ID                int64
	ResourceID        int64
	DurationOptionID  int64
	Weekday           time.Weekday
	StartTime         types.TimeString
	HorizonWeeks      int
	SeriesStart       time.Time
	SeriesEnd         *time.Time
	IsActive          bool
	LastGeneratedDate *time.Time
	Customer          Customer
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OccurrenceOutcome результат генерации одной даты серии
type OccurrenceOutcome string

const (
	OccurrenceCreated OccurrenceOutcome = "created"
	OccurrenceSkipped OccurrenceOutcome = "skipped"
	OccurrenceFailed  OccurrenceOutcome = "failed"
)

// SeriesOccurrence запись о сгенерированной дате серии
type SeriesOccurrence struct {
	SeriesID      int64
	Date          time.Time
	Outcome       OccurrenceOutcome
	ReservationID *int64
	Reason        string
}
