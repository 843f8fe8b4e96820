package get_series

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/series"
)

// SeriesResponse HTTP модель серии
type SeriesResponse struct {
	ID                int64    `json:"id"`
	ResourceID        int64    `json:"resourceId"`
	DurationOptionID  int64    `json:"durationOptionId"`
	Weekday           int      `json:"weekday"` // 0 - воскресенье
	StartTime         string   `json:"startTime"`
	HorizonWeeks      int      `json:"horizonWeeks"`
	SeriesStart       string   `json:"seriesStart"`
	SeriesEnd         *string  `json:"seriesEnd,omitempty"`
	IsActive          bool     `json:"isActive"`
	LastGeneratedDate *string  `json:"lastGeneratedDate,omitempty"`
	Customer          Customer `json:"customer"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// OccurrenceResponse HTTP модель вхождения серии
type OccurrenceResponse struct {
	Date          string `json:"date"`
	Outcome       string `json:"outcome"`
	ReservationID *int64 `json:"reservationId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// DetailsResponse серия с журналом вхождений
type DetailsResponse struct {
	Series      *SeriesResponse      `json:"series"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// FromSeries конвертирует доменную серию в HTTP модель
func FromSeries(s *domain.RecurringSeries) *SeriesResponse {
	resp := &SeriesResponse{
		ID:               s.ID,
		ResourceID:       s.ResourceID,
		DurationOptionID: s.DurationOptionID,
		Weekday:          int(s.Weekday),
		StartTime:        s.StartTime.String(),
		HorizonWeeks:     s.HorizonWeeks,
		SeriesStart:      s.SeriesStart.Format(domain.DateFormat),
		IsActive:         s.IsActive,
		Customer: Customer{
			Name:  s.Customer.Name,
			Phone: s.Customer.Phone,
			Email: s.Customer.Email,
		},
	}
	if s.SeriesEnd != nil {
		end := s.SeriesEnd.Format(domain.DateFormat)
		resp.SeriesEnd = &end
	}
	if s.LastGeneratedDate != nil {
		last := s.LastGeneratedDate.Format(domain.DateFormat)
		resp.LastGeneratedDate = &last
	}
	return resp
}

// FromOccurrences конвертирует журнал вхождений
func FromOccurrences(occurrences []domain.SeriesOccurrence) []OccurrenceResponse {
	result := make([]OccurrenceResponse, 0, len(occurrences))
	for _, o := range occurrences {
		result = append(result, OccurrenceResponse{
			Date:          o.Date.Format(domain.DateFormat),
			Outcome:       string(o.Outcome),
			ReservationID: o.ReservationID,
			Reason:        o.Reason,
		})
	}
	return result
}

// FromDetails конвертирует результат сервиса в HTTP response
func FromDetails(d *series.Details) *DetailsResponse {
	return &DetailsResponse{
		Series:      FromSeries(d.Series),
		Occurrences: FromOccurrences(d.Occurrences),
	}
}
