package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Mirror источник каталога и карт доступности
type Mirror interface {
	Catalogue(ctx context.Context) ([]domain.DurationOption, error)
	Map(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
