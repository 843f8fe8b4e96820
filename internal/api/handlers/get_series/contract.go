package get_series

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

type SeriesService interface {
	Get(ctx context.Context, id int64) (*series.Details, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
