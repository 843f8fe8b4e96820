package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
)

// UseCase отправка черновика бронирования в бэкенд
type UseCase struct {
	sessions SessionStore
	backend  BackendClient
	mirror   Mirror
	metrics  Metrics
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessions SessionStore,
	backendClient BackendClient,
	mirror Mirror,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions: sessions,
		backend:  backendClient,
		mirror:   mirror,
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute выполняет use case отправки бронирования.
// Сетевой вызов выполняется вне блокировки сессии; пока он идет, сессия находится в submitting.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Перестраиваем карту черновика на текущий момент
	uc.currentMap(ctx, req.SessionID)

	// 3. Фиксируем черновик: данные клиента, проверка, переход в submitting
	var draft domain.SelectionDraft
	err := uc.sessions.Do(req.SessionID, func(m *selection.Machine) error {
		if req.Customer != nil {
			if err := m.SetCustomer(*req.Customer); err != nil {
				return err
			}
		}
		d, err := m.Confirm()
		if err != nil {
			return err
		}
		draft = d
		return nil
	})
	if err != nil {
		return nil, uc.confirmError(req.SessionID, err)
	}

	uc.logger.Info("SubmitBooking: session=%s resource=%d date=%s start=%s option=%d",
		req.SessionID, draft.ResourceID, draft.Date.Format(domain.DateFormat), draft.StartTime, draft.DurationOption.ID)

	// 4. Создаем бронирование в бэкенде
	reservation, createErr := uc.backend.CreateReservation(ctx, backend.CreateReservationRequest{
		ResourceID:       draft.ResourceID,
		DurationOptionID: draft.DurationOption.ID,
		Date:             draft.Date,
		StartTime:        draft.StartTime,
		Customer:         draft.Customer,
		IdempotencyKey:   uuid.NewString(),
	})

	// 5. Переводим сессию в success или error
	outcome := selection.Outcome{Reservation: reservation}
	if createErr != nil {
		outcome = selection.Outcome{Failure: failureFor(createErr)}
	}

	var state selection.State
	if err := uc.sessions.Do(req.SessionID, func(m *selection.Machine) error {
		if err := m.Resolve(outcome); err != nil {
			return err
		}
		state = m.State()
		return nil
	}); err != nil {
		uc.logger.Error("SubmitBooking: session=%s: failed to resolve submission: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: resolve: %v", ErrInternal, err)
	}

	// 6. Успех и конфликт меняют занятость: сбрасываем зеркало и перестраиваем карту
	if createErr == nil || errors.Is(createErr, backend.ErrConflict) {
		uc.refresh(ctx, req.SessionID, draft)
	}

	if createErr != nil {
		uc.incSubmission(string(outcome.Failure.Kind))
		return nil, uc.submitError(req.SessionID, outcome.Failure, createErr)
	}

	uc.incSubmission("success")
	uc.logger.Info("SubmitBooking: session=%s reservation id=%d created", req.SessionID, reservation.ID)

	return &Response{
		State:       state,
		Reservation: reservation,
	}, nil
}

// currentMap заменяет карту черновика картой на текущий момент: слоты, начало которых
// уже прошло, и брони, появившиеся после активации, не пройдут проверку Confirm.
// При ошибке остается прежняя карта, окончательное решение за бэкендом.
func (uc *UseCase) currentMap(ctx context.Context, sessionID string) {
	var (
		draft domain.SelectionDraft
		ok    bool
	)
	if err := uc.sessions.Do(sessionID, func(m *selection.Machine) error {
		if m.State() == selection.StateDraft {
			draft, ok = m.Draft()
		}
		return nil
	}); err != nil || !ok {
		// Отсутствие сессии или черновика сообщит Confirm
		return
	}

	am, err := uc.mirror.Map(ctx, draft.ResourceID, draft.Date, false)
	if err != nil {
		uc.logger.Warn("SubmitBooking: session=%s: failed to rebuild availability before confirm: %v", sessionID, err)
		return
	}

	if err := uc.sessions.Do(sessionID, func(m *selection.Machine) error {
		m.SetAvailability(am)
		return nil
	}); err != nil {
		uc.logger.Warn("SubmitBooking: session=%s: failed to store availability: %v", sessionID, err)
	}
}

func (uc *UseCase) refresh(ctx context.Context, sessionID string, draft domain.SelectionDraft) {
	uc.mirror.Invalidate(ctx, draft.ResourceID, draft.Date)

	am, err := uc.mirror.Map(ctx, draft.ResourceID, draft.Date, true)
	if err != nil {
		// Карта останется устаревшей до следующей активации
		uc.logger.Warn("SubmitBooking: session=%s: failed to rebuild availability: %v", sessionID, err)
		return
	}

	if err := uc.sessions.Do(sessionID, func(m *selection.Machine) error {
		m.SetAvailability(am)
		return nil
	}); err != nil {
		uc.logger.Warn("SubmitBooking: session=%s: failed to store availability: %v", sessionID, err)
	}
}

func (uc *UseCase) confirmError(sessionID string, err error) error {
	switch {
	case errors.Is(err, selection.ErrValidation):
		uc.logger.Warn("SubmitBooking: session=%s: customer rejected: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case errors.Is(err, selection.ErrSlotUnavailable), errors.Is(err, selection.ErrAvailabilityStale):
		uc.logger.Warn("SubmitBooking: session=%s: draft no longer feasible: %v", sessionID, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		// ErrSessionNotFound, ErrInvalidTransition и ErrSubmissionInFlight отдаются как есть
		uc.logger.Warn("SubmitBooking: session=%s: cannot confirm: %v", sessionID, err)
		return err
	}
}

func (uc *UseCase) submitError(sessionID string, failure *selection.Failure, err error) error {
	switch failure.Kind {
	case selection.FailureConflict:
		uc.logger.Warn("SubmitBooking: session=%s: conflict: %v", sessionID, err)
		return fmt.Errorf("%w: %s", ErrConflict, failure.Message)
	case selection.FailureValidation:
		uc.logger.Warn("SubmitBooking: session=%s: rejected by backend: %v", sessionID, err)
		return fmt.Errorf("%w: %s", ErrValidation, failure.Message)
	default:
		uc.logger.Error("SubmitBooking: session=%s: backend failure: %v", sessionID, err)
		return fmt.Errorf("%w: %s", ErrTransient, failure.Message)
	}
}

func (uc *UseCase) incSubmission(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncSubmission(outcome)
	}
}

// failureFor классифицирует ошибку бэкенда
func failureFor(err error) *selection.Failure {
	message := backend.MessageOf(err)

	switch {
	case errors.Is(err, backend.ErrConflict):
		// Текст конфликта всегда единый, независимо от ответа бэкенда
		return &selection.Failure{Kind: selection.FailureConflict, Message: selection.MessageConflict}
	case errors.Is(err, backend.ErrValidation):
		return &selection.Failure{Kind: selection.FailureValidation, Message: orDefault(message, selection.MessageValidation)}
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &selection.Failure{Kind: selection.FailureTransient, Message: orDefault(message, selection.MessageTransient)}
	default:
		return &selection.Failure{Kind: selection.FailureUnknown, Message: orDefault(message, selection.MessageUnknown)}
	}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
