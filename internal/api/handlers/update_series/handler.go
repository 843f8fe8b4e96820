package update_series

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_series"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

const (
	msgInvalidSeriesID    = "некорректный ID серии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSeriesNotFound     = "серия не найдена"
	msgSeriesInactive     = "серия уже остановлена"
	msgInvalidTruncate    = "новая дата окончания должна быть раньше текущей и не раньше начала серии"
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

// Truncate PATCH /api/v1/series/{seriesId}
func (h *Handler) Truncate(w http.ResponseWriter, r *http.Request) {
	seriesID, err := handlers.PathID(r, "seriesId")
	if err != nil {
		h.logger.Warn("PATCH /series/{id} - Invalid series ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	var req TruncateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /series/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newEnd, err := handlers.ParseDate(req.SeriesEnd, h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	updated, err := h.service.Truncate(r.Context(), seriesID, newEnd)
	if err != nil {
		h.respondError(w, "PATCH /series/{id}", seriesID, err)
		return
	}

	h.logger.Info("PATCH /series/{id} - Series truncated: series_id=%d, series_end=%s", seriesID, req.SeriesEnd)
	handlers.RespondJSON(w, http.StatusOK, get_series.FromSeries(updated))
}

// Deactivate DELETE /api/v1/series/{seriesId}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	seriesID, err := handlers.PathID(r, "seriesId")
	if err != nil {
		h.logger.Warn("DELETE /series/{id} - Invalid series ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	if err := h.service.Deactivate(r.Context(), seriesID); err != nil {
		h.respondError(w, "DELETE /series/{id}", seriesID, err)
		return
	}

	h.logger.Info("DELETE /series/{id} - Series deactivated: series_id=%d", seriesID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, seriesID int64, err error) {
	switch {
	case errors.Is(err, series.ErrSeriesNotFound):
		h.logger.Warn("%s - Series not found: series_id=%d", route, seriesID)
		handlers.RespondNotFound(w, msgSeriesNotFound)
	case errors.Is(err, series.ErrSeriesInactive):
		handlers.RespondConflict(w, msgSeriesInactive)
	case errors.Is(err, series.ErrInvalidTruncate):
		h.logger.Warn("%s - Invalid truncate: series_id=%d, error=%v", route, seriesID, err)
		handlers.RespondBadRequest(w, msgInvalidTruncate)
	default:
		h.logger.Error("%s - Failed: series_id=%d, error=%v", route, seriesID, err)
		handlers.RespondInternalError(w)
	}
}
