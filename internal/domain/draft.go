package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// SelectionDraft незавершенный выбор бронирования
type SelectionDraft struct {
	ResourceID      int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	DurationOption  DurationOption
	Customer        Customer
}
