package mirror

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/infra/cache"
)

// BackendClient чтение справочников и данных доступности у бэкенда
type BackendClient interface {
	GetResources(ctx context.Context) ([]domain.Resource, error)
	GetDurationOptions(ctx context.Context) ([]domain.DurationOption, error)
	GetAvailability(ctx context.Context, resourceID, durationOptionID int64, date time.Time) ([]domain.HourAvailability, error)
	GetReservations(ctx context.Context, resourceID int64, date time.Time) ([]domain.Reservation, error)
}

// Cache хранилище снимков зеркала
type Cache interface {
	Get(ctx context.Context, key cache.Key) (*cache.Snapshot, bool, error)
	Put(ctx context.Context, snapshot *cache.Snapshot) error
	Invalidate(ctx context.Context, key cache.Key) error
}

// Metrics счетчики обращений к зеркалу
type Metrics interface {
	IncMirrorLookup(hit bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
