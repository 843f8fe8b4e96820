package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Mirror зеркало бронирований и справочников бэкенда
type Mirror interface {
	Resource(ctx context.Context, resourceID int64) (domain.Resource, error)
	Catalogue(ctx context.Context) ([]domain.DurationOption, error)
	Map(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error)
}

// Metrics счетчики проверок выполнимости
type Metrics interface {
	IncFeasibility(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
