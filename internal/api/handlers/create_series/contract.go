package create_series

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

type SeriesService interface {
	Create(ctx context.Context, req *series.CreateRequest) (*series.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
