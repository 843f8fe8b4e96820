package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_availability"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidOption      = "некорректный ID длительности"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidRefresh     = "некорректное значение refresh"
	msgInvalidInput       = "некорректные параметры запроса"
	msgResourceNotFound   = "ресурс не найден"
	msgOptionNotFound     = "длительность не найдена"
	msgBackendUnavailable = "сервис бронирования временно недоступен"
)

var (
	errInvalidDate    = errors.New(msgInvalidDate)
	errInvalidOption  = errors.New(msgInvalidOption)
	errInvalidTime    = errors.New(msgInvalidTime)
	errInvalidRefresh = errors.New(msgInvalidRefresh)
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability
// Query params: date (required, YYYY-MM-DD), durationOptionId, startTime (HH:MM), refresh
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceID, r.URL.Query(), h.location)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid query: resource_id=%d, error=%v", resourceID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/availability - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailability.ErrDurationOptionNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Duration option not found: resource_id=%d, option_id=%d",
				resourceID, useCaseReq.DurationOptionID)
			handlers.RespondNotFound(w, msgOptionNotFound)

		case errors.Is(err, getAvailability.ErrUnavailable):
			h.logger.Warn("GET /resources/{id}/availability - Backend unavailable: resource_id=%d", resourceID)
			handlers.RespondServiceUnavailable(w, msgBackendUnavailable)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed to get availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/availability - Availability retrieved: resource_id=%d, date=%s, slots_count=%d",
		resourceID, r.URL.Query().Get("date"), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
