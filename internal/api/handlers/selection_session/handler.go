package selection_session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/mirror"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
	"github.com/m04kA/SMC-SlotEngine/internal/service/sessions"
	"github.com/m04kA/SMC-SlotEngine/pkg/ptr"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgUnknownAction      = "неизвестное действие"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgResourceNotFound   = "ресурс не найден"
	msgOptionNotFound     = "длительность не найдена"
	msgInvalidTransition  = "действие недоступно в текущем состоянии"
	msgSubmissionInFlight = "бронирование уже отправлено, дождитесь ответа"
	msgAvailabilityStale  = "данные о занятости устарели, обновите расписание"
	msgNoAvailability     = "расписание ресурса на эту дату не загружено"
	msgSlotUnavailable    = "слот больше недоступен"
	msgInvalidCustomer    = "некорректные данные клиента"
	msgBackendUnavailable = "сервис бронирования временно недоступен"
)

type Handler struct {
	service  SessionService
	location *time.Location
	logger   Logger
}

func NewHandler(service SessionService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Create POST /api/v1/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Create(r.Context())
	if err != nil {
		h.respondError(w, "POST /sessions", "", err)
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%s", view.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromView(view))
}

// Get GET /api/v1/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	view, err := h.service.Get(id)
	if err != nil {
		h.respondError(w, "GET /sessions/{id}", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// Close DELETE /api/v1/sessions/{sessionId}
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	if err := h.service.Close(id); err != nil {
		h.respondError(w, "DELETE /sessions/{id}", id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Activate POST /api/v1/sessions/{sessionId}/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var req ActivateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/activate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ResourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	date, err := handlers.ParseDate(req.Date, h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	view, activated, err := h.service.Activate(r.Context(), id, req.ResourceID, date, start)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/activate", id, err)
		return
	}

	resp := FromView(view)
	resp.Accepted = ptr.Ptr(activated)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Refresh POST /api/v1/sessions/{sessionId}/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var req RefreshRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/refresh - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ResourceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	date, err := handlers.ParseDate(req.Date, h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	view, err := h.service.Refresh(r.Context(), id, req.ResourceID, date)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/refresh", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// ChooseDuration POST /api/v1/sessions/{sessionId}/duration
func (h *Handler) ChooseDuration(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var req DurationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/duration - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, chosen, err := h.service.ChooseDuration(id, req.DurationOptionID)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/duration", id, err)
		return
	}

	resp := FromView(view)
	resp.Accepted = ptr.Ptr(chosen)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// SetCustomer PUT /api/v1/sessions/{sessionId}/customer
func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]

	var req CustomerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id}/customer - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.service.SetCustomer(id, req.ToCustomer())
	if err != nil {
		h.respondError(w, "PUT /sessions/{id}/customer", id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// Transition POST /api/v1/sessions/{sessionId}/{action}, action: cancel, retry, dismiss, abandon
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, action := vars["sessionId"], vars["action"]

	var op func(string) (*sessions.View, error)
	switch action {
	case "cancel":
		op = h.service.Cancel
	case "retry":
		op = h.service.Retry
	case "dismiss":
		op = h.service.Dismiss
	case "abandon":
		op = h.service.Abandon
	default:
		handlers.RespondNotFound(w, msgUnknownAction)
		return
	}

	view, err := op(id)
	if err != nil {
		h.respondError(w, "POST /sessions/{id}/"+action, id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

func (h *Handler) respondError(w http.ResponseWriter, route, id string, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", route, id)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, mirror.ErrResourceNotFound), errors.Is(err, backend.ErrNotFound):
		h.logger.Warn("%s - Resource not found: session_id=%s, error=%v", route, id, err)
		handlers.RespondNotFound(w, msgResourceNotFound)

	case errors.Is(err, selection.ErrUnknownOption):
		handlers.RespondNotFound(w, msgOptionNotFound)

	case errors.Is(err, selection.ErrValidation):
		h.logger.Warn("%s - Invalid customer: session_id=%s, error=%v", route, id, err)
		handlers.RespondUnprocessable(w, msgInvalidCustomer)

	case errors.Is(err, selection.ErrSubmissionInFlight):
		handlers.RespondConflict(w, msgSubmissionInFlight)

	case errors.Is(err, selection.ErrAvailabilityStale):
		handlers.RespondConflict(w, msgAvailabilityStale)

	case errors.Is(err, selection.ErrNoAvailability):
		handlers.RespondConflict(w, msgNoAvailability)

	case errors.Is(err, selection.ErrSlotUnavailable):
		handlers.RespondConflict(w, msgSlotUnavailable)

	case errors.Is(err, selection.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: session_id=%s, error=%v", route, id, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, backend.ErrUnavailable):
		h.logger.Warn("%s - Backend unavailable: session_id=%s, error=%v", route, id, err)
		handlers.RespondServiceUnavailable(w, msgBackendUnavailable)

	default:
		h.logger.Error("%s - Failed: session_id=%s, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
