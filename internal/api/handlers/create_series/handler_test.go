package create_series

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
)

type fakeService struct {
	lastReq *series.CreateRequest
	err     error
}

func (f *fakeService) Create(_ context.Context, req *series.CreateRequest) (*series.Result, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	reservationID := int64(100)
	return &series.Result{
		Series: &domain.RecurringSeries{
			ID:           3,
			ResourceID:   req.ResourceID,
			Weekday:      req.Weekday,
			StartTime:    req.StartTime,
			HorizonWeeks: 8,
			SeriesStart:  req.SeriesStart,
			IsActive:     true,
		},
		Requested: 2,
		Created:   1,
		Skipped:   1,
		Occurrences: []domain.SeriesOccurrence{
			{SeriesID: 3, Date: req.SeriesStart, Outcome: domain.OccurrenceCreated, ReservationID: &reservationID},
			{SeriesID: 3, Date: req.SeriesStart.AddDate(0, 0, 7), Outcome: domain.OccurrenceSkipped, Reason: "overlap"},
		},
		Reservations: []domain.Reservation{{ID: reservationID, ResourceID: req.ResourceID, Date: req.SeriesStart, StartTime: req.StartTime}},
	}, nil
}

const validBody = `{
	"resourceId": 1,
	"durationOptionId": 2,
	"weekday": 1,
	"startTime": "18:00",
	"seriesStart": "2026-03-02",
	"seriesEnd": "2026-04-27",
	"customer": {"name": "Анна", "phone": "+79990001122"}
}`

func TestHandler_Create(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, time.UTC, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/series", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, time.Monday, svc.lastReq.Weekday)
	assert.Equal(t, "18:00", svc.lastReq.StartTime.String())
	require.NotNil(t, svc.lastReq.SeriesEnd)
	assert.Equal(t, time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC), *svc.lastReq.SeriesEnd)

	var resp CreateSeriesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(3), resp.Series.ID)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.Occurrences, 2)
	assert.Equal(t, "overlap", resp.Occurrences[1].Reason)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, int64(100), resp.Reservations[0].ID)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"bad weekday", strings.Replace(validBody, `"weekday": 1`, `"weekday": 7`, 1), nil, http.StatusBadRequest},
		{"bad start time", strings.Replace(validBody, `"18:00"`, `"6pm"`, 1), nil, http.StatusBadRequest},
		{"bad series end", strings.Replace(validBody, `"2026-04-27"`, `"27.04.2026"`, 1), nil, http.StatusBadRequest},
		{"invalid rule", validBody, series.ErrInvalidRule, http.StatusUnprocessableEntity},
		{"backend unavailable", validBody, series.ErrUnavailable, http.StatusServiceUnavailable},
		{"internal", validBody, series.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, time.UTC, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/series", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
