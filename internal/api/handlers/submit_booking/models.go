package submit_booking

import (
	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers/selection_session"
	submitBooking "github.com/m04kA/SMC-SlotEngine/internal/usecase/submit_booking"
)

// SubmitRequest HTTP request model, тело опционально
type SubmitRequest struct {
	Customer *selection_session.CustomerRequest `json:"customer,omitempty"`
}

// SubmitResponse HTTP response model
type SubmitResponse struct {
	State       string                                 `json:"state"`
	Reservation *selection_session.ReservationResponse `json:"reservation,omitempty"`
	Failure     *selection_session.FailureResponse     `json:"failure,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в usecase request
func (r *SubmitRequest) ToUseCaseRequest(sessionID string) *submitBooking.Request {
	req := &submitBooking.Request{SessionID: sessionID}
	if r.Customer != nil {
		customer := r.Customer.ToCustomer()
		req.Customer = &customer
	}
	return req
}

// FromUseCaseResponse конвертирует usecase response в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitResponse {
	result := &SubmitResponse{State: string(resp.State)}
	if resp.Reservation != nil {
		result.Reservation = selection_session.FromReservation(resp.Reservation)
	}
	if resp.Failure != nil {
		result.Failure = &selection_session.FailureResponse{
			Kind:    string(resp.Failure.Kind),
			Message: resp.Failure.Message,
		}
	}
	return result
}
