package create_series

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/api/middleware"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило серии"
	msgBackendUnavailable = "сервис бронирования временно недоступен"
)

type Handler struct {
	service  SeriesService
	location *time.Location
	logger   Logger
}

func NewHandler(service SeriesService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/series
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req CreateSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /series - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /series - Invalid request: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, series.ErrInvalidRule):
			h.logger.Warn("POST /series - Invalid rule: user_id=%d, error=%v", userID, err)
			handlers.RespondUnprocessable(w, msgInvalidRule)
		case errors.Is(err, series.ErrUnavailable):
			h.logger.Warn("POST /series - Backend unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgBackendUnavailable)
		default:
			h.logger.Error("POST /series - Failed to create series: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /series - Series created: series_id=%d, user_id=%d, created=%d, skipped=%d, failed=%d",
		result.Series.ID, userID, result.Created, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusCreated, FromResult(result))
}
