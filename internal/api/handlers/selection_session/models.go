package selection_session

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/sessions"
)

// ActivateRequest выбор начала
type ActivateRequest struct {
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`      // "2026-03-02"
	StartTime  string `json:"startTime"` // "18:00"
}

// RefreshRequest принудительное обновление карты
type RefreshRequest struct {
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`
}

// DurationRequest выбор длительности
type DurationRequest struct {
	DurationOptionID int64 `json:"durationOptionId"`
}

// CustomerRequest данные клиента
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// SessionResponse HTTP response model
type SessionResponse struct {
	ID          string               `json:"id"`
	State       string               `json:"state"`
	Accepted    *bool                `json:"accepted,omitempty"` // Результат activate/duration: false, если слот или длительность невыполнимы
	Active      *SlotResponse        `json:"active,omitempty"`
	Draft       *DraftResponse       `json:"draft,omitempty"`
	Failure     *FailureResponse     `json:"failure,omitempty"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
	Options     []OptionResponse     `json:"options,omitempty"`
}

type SlotResponse struct {
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
}

type DraftResponse struct {
	ResourceID       int64            `json:"resourceId"`
	Date             string           `json:"date"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	DurationMinutes  int              `json:"durationMinutes"`
	DurationOptionID int64            `json:"durationOptionId"`
	Price            float64          `json:"price"`
	Customer         CustomerResponse `json:"customer"`
}

type CustomerResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type FailureResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ReservationResponse struct {
	ID         int64  `json:"id"`
	ResourceID int64  `json:"resourceId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Status     string `json:"status"`
}

type OptionResponse struct {
	DurationOptionID int64   `json:"durationOptionId"`
	DurationMinutes  int     `json:"durationMinutes"`
	Price            float64 `json:"price"`
	EndTime          string  `json:"endTime,omitempty"`
	Feasible         bool    `json:"feasible"`
	Reason           string  `json:"reason,omitempty"`
}

// ToCustomer конвертирует HTTP модель в доменную
func (r *CustomerRequest) ToCustomer() domain.Customer {
	return domain.Customer{Name: r.Name, Phone: r.Phone, Email: r.Email}
}

// FromView конвертирует состояние сессии в HTTP response
func FromView(view *sessions.View) *SessionResponse {
	snap := view.Snapshot
	resp := &SessionResponse{
		ID:    view.ID,
		State: string(snap.State),
	}

	if snap.Active != nil {
		resp.Active = &SlotResponse{
			ResourceID: snap.Active.ResourceID,
			Date:       snap.Active.Date.Format(domain.DateFormat),
			StartTime:  snap.Active.StartTime.String(),
		}
	}

	if d := snap.Draft; d != nil {
		resp.Draft = &DraftResponse{
			ResourceID:       d.ResourceID,
			Date:             d.Date.Format(domain.DateFormat),
			StartTime:        d.StartTime.String(),
			EndTime:          d.EndTime.String(),
			DurationMinutes:  d.DurationMinutes,
			DurationOptionID: d.DurationOption.ID,
			Price:            d.DurationOption.Price,
			Customer: CustomerResponse{
				Name:  d.Customer.Name,
				Phone: d.Customer.Phone,
				Email: d.Customer.Email,
			},
		}
	}

	if snap.Failure != nil {
		resp.Failure = &FailureResponse{Kind: string(snap.Failure.Kind), Message: snap.Failure.Message}
	}

	if r := snap.Reservation; r != nil {
		resp.Reservation = FromReservation(r)
	}

	for _, c := range view.Options {
		resp.Options = append(resp.Options, OptionResponse{
			DurationOptionID: c.Option.ID,
			DurationMinutes:  c.Option.DurationMinutes,
			Price:            c.Price,
			EndTime:          c.EndTime.String(),
			Feasible:         c.Feasible,
			Reason:           string(c.Reason),
		})
	}

	return resp
}

// FromReservation конвертирует бронирование в HTTP модель
func FromReservation(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         r.ID,
		ResourceID: r.ResourceID,
		Date:       r.Date.Format(domain.DateFormat),
		StartTime:  r.StartTime.String(),
		EndTime:    r.EndTime.String(),
		Status:     string(r.Status),
	}
}
