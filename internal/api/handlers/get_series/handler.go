package get_series

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

const (
	msgInvalidSeriesID = "некорректный ID серии"
	msgSeriesNotFound  = "серия не найдена"
)

type Handler struct {
	service SeriesService
	logger  Logger
}

func NewHandler(service SeriesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/series/{seriesId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seriesID, err := handlers.PathID(r, "seriesId")
	if err != nil {
		h.logger.Warn("GET /series/{id} - Invalid series ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	details, err := h.service.Get(r.Context(), seriesID)
	if err != nil {
		if errors.Is(err, series.ErrSeriesNotFound) {
			h.logger.Warn("GET /series/{id} - Series not found: series_id=%d", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)
			return
		}
		h.logger.Error("GET /series/{id} - Failed to get series: series_id=%d, error=%v", seriesID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDetails(details))
}
