package backend

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Перевод между моментами времени (RFC3339) и локальным временем арендатора
// выполняется только здесь, на границе сериализации.

// toWireStart момент начала для даты и локального времени
func toWireStart(date time.Time, start types.TimeString, loc *time.Location) (time.Time, error) {
	minutes := start.Minutes()
	if minutes < 0 || minutes >= types.MinutesPerDay {
		return time.Time{}, fmt.Errorf("%w: invalid start time %q", ErrInternal, start)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}

// toLocalReservation переводит бронирование в локальное время арендатора.
// Конец на следующих сутках становится границей "24:00".
func toLocalReservation(dto reservationDTO, loc *time.Location) (domain.Reservation, error) {
	start := dto.Start.In(loc)
	end := dto.End.In(loc)
	if !end.After(start) {
		return domain.Reservation{}, fmt.Errorf("%w: reservation id=%d ends before it starts", ErrInvalidResponse, dto.ID)
	}

	endTime := types.TimeString("24:00")
	if domain.SameDate(start, end) {
		endTime = types.NewTimeString(end)
	}

	status := domain.ReservationStatus(dto.Status)
	if !status.IsValid() {
		return domain.Reservation{}, fmt.Errorf("%w: reservation id=%d has unknown status %q", ErrInvalidResponse, dto.ID, dto.Status)
	}

	return domain.Reservation{
		ID:               dto.ID,
		ResourceID:       dto.ResourceID,
		DurationOptionID: dto.DurationOptionID,
		Date:             domain.DateOnly(start),
		StartTime:        types.NewTimeString(start),
		EndTime:          endTime,
		Status:           status,
	}, nil
}

func toCustomerDTO(c domain.Customer) customerDTO {
	return customerDTO{Name: c.Name, Phone: c.Phone, Email: c.Email}
}
