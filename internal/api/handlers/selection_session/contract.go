package selection_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/sessions"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

type SessionService interface {
	Create(ctx context.Context) (*sessions.View, error)
	Get(id string) (*sessions.View, error)
	Activate(ctx context.Context, id string, resourceID int64, date time.Time, start types.TimeString) (*sessions.View, bool, error)
	Refresh(ctx context.Context, id string, resourceID int64, date time.Time) (*sessions.View, error)
	ChooseDuration(id string, optionID int64) (*sessions.View, bool, error)
	SetCustomer(id string, customer domain.Customer) (*sessions.View, error)
	Cancel(id string) (*sessions.View, error)
	Retry(id string) (*sessions.View, error)
	Dismiss(id string) (*sessions.View, error)
	Abandon(id string) (*sessions.View, error)
	Close(id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
