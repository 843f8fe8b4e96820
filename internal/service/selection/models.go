package selection

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// State состояние машины выбора
type State string

const (
	StateIdle            State = "idle"
	StateHovering        State = "hovering"
	StateActive          State = "active"
	StateDurationPreview State = "duration_preview"
	StateDraft           State = "draft"
	StateSubmitting      State = "submitting"
	StateSuccess         State = "success"
	StateError           State = "error"
)

// SlotRef слот конкретного ресурса на дату
type SlotRef struct {
	ResourceID int64
	Date       time.Time
	StartTime  types.TimeString
}

func (r SlotRef) key() mapKey {
	return mapKey{resourceID: r.ResourceID, date: r.Date.Format(domain.DateFormat)}
}

func (r SlotRef) equal(other SlotRef) bool {
	return r.key() == other.key() && r.StartTime == other.StartTime
}

type mapKey struct {
	resourceID int64
	date       string
}

// FailureKind категория ошибки отправки
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureConflict   FailureKind = "conflict"
	FailureTransient  FailureKind = "transient"
	FailureUnknown    FailureKind = "unknown"
)

// Сообщения по умолчанию, когда бэкенд не прислал текст
const (
	MessageConflict   = "slot no longer available"
	MessageValidation = "booking data rejected"
	MessageTransient  = "temporary failure, please retry"
	MessageUnknown    = "booking failed"
)

// Failure причина ошибки, показываемая пользователю
type Failure struct {
	Kind    FailureKind
	Message string
}

// Outcome ответ бэкенда на отправку: заполнено ровно одно поле
type Outcome struct {
	Reservation *domain.Reservation
	Failure     *Failure
}

// Snapshot долговременное представление сессии выбора.
// Наведение и предпросмотр длительности сюда не попадают.
type Snapshot struct {
	State       State
	Active      *SlotRef
	Draft       *domain.SelectionDraft
	Failure     *Failure
	Reservation *domain.Reservation
}
