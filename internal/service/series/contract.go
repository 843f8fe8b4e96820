package series

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Repository хранилище правил серий и журнала вхождений
type Repository interface {
	Create(ctx context.Context, s *domain.RecurringSeries) (*domain.RecurringSeries, error)
	GetByID(ctx context.Context, id int64) (*domain.RecurringSeries, error)
	ListActive(ctx context.Context) ([]*domain.RecurringSeries, error)
	Deactivate(ctx context.Context, id int64) error
	UpdateSeriesEnd(ctx context.Context, id int64, seriesEnd time.Time) error
	MarkGenerated(ctx context.Context, id int64, date time.Time) error
	RecordOccurrence(ctx context.Context, o domain.SeriesOccurrence) error
	ListOccurrences(ctx context.Context, seriesID int64) ([]domain.SeriesOccurrence, error)
}

// BackendClient интерфейс клиента авторитетного бэкенда
type BackendClient interface {
	CreateReservation(ctx context.Context, req backend.CreateReservationRequest) (*domain.Reservation, error)
	CreateSeries(ctx context.Context, req backend.CreateSeriesRequest) (*backend.SeriesResult, error)
}

// Mirror зеркало бронирований
type Mirror interface {
	Catalogue(ctx context.Context) ([]domain.DurationOption, error)
	Map(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error)
	Invalidate(ctx context.Context, resourceID int64, date time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limiter ограничитель частоты исходящих запросов (golang.org/x/time/rate)
type Limiter interface {
	Wait(ctx context.Context) error
}

// Metrics счетчики вхождений серий
type Metrics interface {
	IncSeriesOccurrence(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
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
