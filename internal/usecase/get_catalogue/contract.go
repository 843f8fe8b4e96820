package get_catalogue

import (
	"context"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// Mirror справочники бэкенда
type Mirror interface {
	Resources(ctx context.Context) ([]domain.Resource, error)
	Catalogue(ctx context.Context) ([]domain.DurationOption, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
