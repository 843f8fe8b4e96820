package update_series

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

type SeriesService interface {
	Truncate(ctx context.Context, id int64, newEnd time.Time) (*domain.RecurringSeries, error)
	Deactivate(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
