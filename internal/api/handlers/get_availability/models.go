package get_availability

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	getAvailability "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID      int64                 `json:"resourceId"`
	ResourceName    string                `json:"resourceName"`
	Date            string                `json:"date"`
	Policy          string                `json:"unreportedHourPolicy"`
	GridOpen        string                `json:"gridOpen"`
	GridClose       string                `json:"gridClose"`
	Granularity     int                   `json:"granularityMinutes"`
	DurationMinutes int                   `json:"durationMinutes"`
	Hours           []HourResponse        `json:"hours"`
	Slots           []SlotResponse        `json:"slots"`
	Reservations    []ReservationResponse `json:"reservations"`
	Options         []OptionResponse      `json:"options,omitempty"`
}

type HourResponse struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

type SlotResponse struct {
	StartTime string  `json:"startTime"`
	Fraction  float64 `json:"fraction"`
	HourOpen  bool    `json:"hourOpen"`
	Past      bool    `json:"past"`
	Reserved  bool    `json:"reserved"`
	Bookable  bool    `json:"bookable"`
	Feasible  bool    `json:"feasible"`
	Reason    string  `json:"reason,omitempty"`
}

type ReservationResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

type OptionResponse struct {
	DurationOptionID int64   `json:"durationOptionId"`
	DurationMinutes  int     `json:"durationMinutes"`
	Price            float64 `json:"price"`
	EndTime          string  `json:"endTime,omitempty"`
	Feasible         bool    `json:"feasible"`
	Reason           string  `json:"reason,omitempty"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(resourceID int64, query url.Values, loc *time.Location) (*getAvailability.Request, error) {
	get := query.Get

	date, err := handlers.ParseDate(get("date"), loc)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &getAvailability.Request{
		ResourceID: resourceID,
		Date:       date,
	}

	if v := get("durationOptionId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errInvalidOption
		}
		req.DurationOptionID = id
	}

	if v := get("startTime"); v != "" {
		start, err := types.NewTimeStringFromString(v)
		if err != nil {
			return nil, errInvalidTime
		}
		req.StartTime = &start
	}

	if v := get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errInvalidRefresh
		}
		req.Refresh = refresh
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		ResourceID:      resp.ResourceID,
		ResourceName:    resp.ResourceName,
		Date:            resp.Date.Format(domain.DateFormat),
		Policy:          string(resp.Policy),
		GridOpen:        resp.GridOpen.String(),
		GridClose:       resp.GridClose.String(),
		Granularity:     resp.Granularity,
		DurationMinutes: resp.DurationMinutes,
		Hours:           make([]HourResponse, len(resp.Hours)),
		Slots:           make([]SlotResponse, len(resp.Slots)),
		Reservations:    make([]ReservationResponse, len(resp.Reservations)),
	}

	for i, h := range resp.Hours {
		result.Hours[i] = HourResponse{Hour: h.Hour, Available: h.Available}
	}
	for i, s := range resp.Slots {
		result.Slots[i] = SlotResponse{
			StartTime: s.StartTime.String(),
			Fraction:  s.Fraction,
			HourOpen:  s.HourOpen,
			Past:      s.Past,
			Reserved:  s.Reserved,
			Bookable:  s.Bookable,
			Feasible:  s.Feasible,
			Reason:    string(s.Reason),
		}
	}
	for i, r := range resp.Reservations {
		result.Reservations[i] = ReservationResponse{
			ID:        r.ID,
			StartTime: r.StartTime.String(),
			EndTime:   r.EndTime.String(),
			Status:    string(r.Status),
		}
	}
	for _, c := range resp.Options {
		result.Options = append(result.Options, OptionResponse{
			DurationOptionID: c.Option.ID,
			DurationMinutes:  c.Option.DurationMinutes,
			Price:            c.Price,
			EndTime:          c.EndTime.String(),
			Feasible:         c.Feasible,
			Reason:           string(c.Reason),
		})
	}

	return result
}
