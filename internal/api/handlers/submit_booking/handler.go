package submit_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
	"github.com/m04kA/SMC-SlotEngine/internal/service/sessions"
	submitBooking "github.com/m04kA/SMC-SlotEngine/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные входные данные"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgSlotUnavailable    = "слот больше недоступен"
	msgValidation         = "данные бронирования отклонены"
	msgTransient          = "временная ошибка, повторите попытку"
	msgSubmissionInFlight = "бронирование уже отправлено, дождитесь ответа"
	msgNothingToSubmit    = "нет черновика для отправки"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/submit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID))
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /sessions/{id}/submit - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/submit - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)
		case errors.Is(err, submitBooking.ErrConflict):
			h.logger.Info("POST /sessions/{id}/submit - Slot conflict: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgSlotUnavailable)
		case errors.Is(err, submitBooking.ErrValidation):
			handlers.RespondUnprocessable(w, msgValidation)
		case errors.Is(err, submitBooking.ErrTransient):
			handlers.RespondServiceUnavailable(w, msgTransient)
		case errors.Is(err, selection.ErrSubmissionInFlight):
			handlers.RespondConflict(w, msgSubmissionInFlight)
		case errors.Is(err, selection.ErrInvalidTransition):
			h.logger.Warn("POST /sessions/{id}/submit - Nothing to submit: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgNothingToSubmit)
		default:
			h.logger.Error("POST /sessions/{id}/submit - Failed to submit booking: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/submit - Reservation created: session_id=%s, reservation_id=%d", sessionID, result.Reservation.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
