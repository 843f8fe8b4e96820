package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

var msk = time.FixedZone("MSK", 3*3600)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, "club-1", msk, logger.NewNop())
}

func TestGetAvailability(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resources/7/availability", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("durationOptionId"))
		assert.Equal(t, "2026-03-02", r.URL.Query().Get("date"))
		assert.Equal(t, "club-1", r.Header.Get("X-Tenant-ID"))

		_, _ = w.Write([]byte(`[{"hour":8,"available":true},{"hour":9,"available":false}]`))
	})

	signal, err := client.GetAvailability(context.Background(), 7, 3, time.Date(2026, 3, 2, 0, 0, 0, 0, msk))
	require.NoError(t, err)
	assert.Equal(t, []domain.HourAvailability{{Hour: 8, Available: true}, {Hour: 9, Available: false}}, signal)
}

func TestGetReservations_ConvertsToLocalTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resources/7/reservations", r.URL.Path)
		// 07:00Z = 10:00 MSK, 21:00Z = 24:00 MSK
		_, _ = w.Write([]byte(`[
			{"id":1,"resource_id":7,"duration_option_id":2,"start":"2026-03-02T07:00:00Z","end":"2026-03-02T08:30:00Z","status":"active"},
			{"id":2,"resource_id":7,"duration_option_id":1,"start":"2026-03-02T20:00:00Z","end":"2026-03-02T21:00:00Z","status":"cancelled"}
		]`))
	})

	reservations, err := client.GetReservations(context.Background(), 7, time.Date(2026, 3, 2, 0, 0, 0, 0, msk))
	require.NoError(t, err)
	require.Len(t, reservations, 2)

	assert.Equal(t, types.TimeString("10:00"), reservations[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), reservations[0].EndTime)
	assert.True(t, domain.SameDate(time.Date(2026, 3, 2, 0, 0, 0, 0, msk), reservations[0].Date))

	assert.Equal(t, types.TimeString("23:00"), reservations[1].StartTime)
	assert.Equal(t, types.TimeString("24:00"), reservations[1].EndTime)
	assert.Equal(t, domain.ReservationCancelled, reservations[1].Status)
}

func TestCreateReservation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reservations", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body createReservationDTO
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(7), body.ResourceID)
		assert.True(t, body.Start.Equal(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)), "09:00 MSK on the wire")
		assert.Equal(t, "Анна", body.Customer.Name)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":55,"resource_id":7,"duration_option_id":1,"start":"2026-03-02T09:00:00+03:00","end":"2026-03-02T10:00:00+03:00","status":"active"}`))
	})

	created, err := client.CreateReservation(context.Background(), CreateReservationRequest{
		ResourceID:       7,
		DurationOptionID: 1,
		Date:             time.Date(2026, 3, 2, 0, 0, 0, 0, msk),
		StartTime:        "09:00",
		Customer:         domain.Customer{Name: "Анна", Phone: "+79001234567"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(55), created.ID)
	assert.Equal(t, types.TimeString("09:00"), created.StartTime)
	assert.Equal(t, types.TimeString("10:00"), created.EndTime)
}

func TestCreateReservation_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		message string
	}{
		{"conflict", http.StatusConflict, `{"code":409,"message":"slot already booked"}`, ErrConflict, "slot already booked"},
		{"validation", http.StatusUnprocessableEntity, `{"code":422,"message":"phone is invalid"}`, ErrValidation, "phone is invalid"},
		{"bad request", http.StatusBadRequest, `{}`, ErrValidation, ""},
		{"not found", http.StatusNotFound, `{"message":"resource not found"}`, ErrNotFound, "resource not found"},
		{"server error", http.StatusBadGateway, `upstream down`, ErrUnavailable, "upstream down"},
		{"unexpected", http.StatusTeapot, ``, ErrInvalidResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.CreateReservation(context.Background(), CreateReservationRequest{
				ResourceID: 7, DurationOptionID: 1,
				Date: time.Date(2026, 3, 2, 0, 0, 0, 0, msk), StartTime: "09:00",
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.message, MessageOf(err))
		})
	}
}

func TestClient_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, "", msk, logger.NewNop())
	_, err := client.GetResources(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.GetDurationOptions(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreateSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series", r.URL.Path)

		var body createSeriesDTO
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1, body.Weekday)
		assert.Equal(t, "18:00", body.StartTime)
		assert.Equal(t, "2026-03-02", body.SeriesStart)
		assert.Nil(t, body.SeriesEnd)
		assert.Equal(t, 8, body.HorizonWeeks)
		assert.Equal(t, "MSK", body.Timezone)

		_, _ = w.Write([]byte(`{"created":7,"skipped":1,"reservations":[
			{"id":1,"resource_id":7,"duration_option_id":1,"start":"2026-03-02T15:00:00Z","end":"2026-03-02T16:00:00Z","status":"active"}
		]}`))
	})

	result, err := client.CreateSeries(context.Background(), CreateSeriesRequest{
		ResourceID:       7,
		DurationOptionID: 1,
		Weekday:          time.Monday,
		StartTime:        "18:00",
		SeriesStart:      time.Date(2026, 3, 2, 0, 0, 0, 0, msk),
		HorizonWeeks:     8,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Reservations, 1)
	assert.Equal(t, types.TimeString("18:00"), result.Reservations[0].StartTime)
}

func TestToWireStart(t *testing.T) {
	start, err := toWireStart(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "23:30", msk)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02T23:30:00+03:00", start.Format(time.RFC3339))

	_, err = toWireStart(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "24:00", msk)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestToLocalReservation_Invalid(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, msk)

	_, err := toLocalReservation(reservationDTO{ID: 1, Start: start, End: start, Status: "active"}, msk)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = toLocalReservation(reservationDTO{ID: 2, Start: start, End: start.Add(time.Hour), Status: "pending"}, msk)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
