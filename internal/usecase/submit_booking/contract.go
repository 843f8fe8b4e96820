package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
)

// SessionStore хранилище сессий выбора
type SessionStore interface {
	Do(id string, fn func(m *selection.Machine) error) error
}

// BackendClient интерфейс клиента авторитетного бэкенда
type BackendClient interface {
	CreateReservation(ctx context.Context, req backend.CreateReservationRequest) (*domain.Reservation, error)
}

// Mirror зеркало бронирований
type Mirror interface {
	Invalidate(ctx context.Context, resourceID int64, date time.Time)
	Map(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error)
}

// Metrics счетчики отправок
type Metrics interface {
	IncSubmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
