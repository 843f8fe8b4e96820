package create_series

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers/get_series"
	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers/selection_session"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

var (
	errInvalidWeekday     = errors.New("weekday must be in range 0..6")
	errInvalidStartTime   = errors.New("startTime must be HH:MM")
	errInvalidSeriesStart = errors.New("seriesStart must be YYYY-MM-DD")
	errInvalidSeriesEnd   = errors.New("seriesEnd must be YYYY-MM-DD")
)

// CreateSeriesRequest HTTP request model
type CreateSeriesRequest struct {
	ResourceID       int64                             `json:"resourceId"`
	DurationOptionID int64                             `json:"durationOptionId"`
	Weekday          int                               `json:"weekday"`     // 0 - воскресенье
	StartTime        string                            `json:"startTime"`   // "18:00"
	SeriesStart      string                            `json:"seriesStart"` // "2026-03-02"
	SeriesEnd        *string                           `json:"seriesEnd,omitempty"`
	HorizonWeeks     int                               `json:"horizonWeeks,omitempty"`
	Customer         selection_session.CustomerRequest `json:"customer"`
}

// CreateSeriesResponse HTTP response model
type CreateSeriesResponse struct {
	Series       *get_series.SeriesResponse              `json:"series"`
	Requested    int                                     `json:"requested"`
	Created      int                                     `json:"created"`
	Skipped      int                                     `json:"skipped"`
	Failed       int                                     `json:"failed"`
	Delegated    bool                                    `json:"delegated"`
	Occurrences  []get_series.OccurrenceResponse         `json:"occurrences"`
	Reservations []selection_session.ReservationResponse `json:"reservations"`
}

// ToServiceRequest конвертирует HTTP request в запрос сервиса
func (r *CreateSeriesRequest) ToServiceRequest(loc *time.Location) (*series.CreateRequest, error) {
	if r.Weekday < 0 || r.Weekday > 6 {
		return nil, errInvalidWeekday
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidStartTime
	}

	seriesStart, err := handlers.ParseDate(r.SeriesStart, loc)
	if err != nil {
		return nil, errInvalidSeriesStart
	}

	req := &series.CreateRequest{
		ResourceID:       r.ResourceID,
		DurationOptionID: r.DurationOptionID,
		Weekday:          time.Weekday(r.Weekday),
		StartTime:        start,
		SeriesStart:      seriesStart,
		HorizonWeeks:     r.HorizonWeeks,
		Customer:         r.Customer.ToCustomer(),
	}

	if r.SeriesEnd != nil {
		end, err := handlers.ParseDate(*r.SeriesEnd, loc)
		if err != nil {
			return nil, errInvalidSeriesEnd
		}
		req.SeriesEnd = &end
	}

	return req, nil
}

// FromResult конвертирует итог генерации в HTTP response
func FromResult(result *series.Result) *CreateSeriesResponse {
	resp := &CreateSeriesResponse{
		Series:       get_series.FromSeries(result.Series),
		Requested:    result.Requested,
		Created:      result.Created,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
		Delegated:    result.Delegated,
		Occurrences:  get_series.FromOccurrences(result.Occurrences),
		Reservations: make([]selection_session.ReservationResponse, 0, len(result.Reservations)),
	}
	for i := range result.Reservations {
		resp.Reservations = append(resp.Reservations, *selection_session.FromReservation(&result.Reservations[i]))
	}
	return resp
}
