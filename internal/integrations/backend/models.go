package backend

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// CreateReservationRequest запрос на создание бронирования в локальном времени арендатора
type CreateReservationRequest struct {
	ResourceID       int64
	DurationOptionID int64
	Date             time.Time
	StartTime        types.TimeString
	Customer         domain.Customer
	IdempotencyKey   string
}

// CreateSeriesRequest запрос пакетного создания серии
type CreateSeriesRequest struct {
	ResourceID       int64
	DurationOptionID int64
	Weekday          time.Weekday
	StartTime        types.TimeString
	SeriesStart      time.Time
	SeriesEnd        *time.Time
	HorizonWeeks     int
	Customer         domain.Customer
}

// SeriesResult результат пакетного создания серии
type SeriesResult struct {
	Created      int
	Skipped      int
	Reservations []domain.Reservation
}

// Модели формата обмена с бэкендом

type resourceDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type durationOptionDTO struct {
	ID              int64   `json:"id"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

type hourAvailabilityDTO struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

type reservationDTO struct {
	ID               int64     `json:"id"`
	ResourceID       int64     `json:"resource_id"`
	DurationOptionID int64     `json:"duration_option_id"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Status           string    `json:"status"`
}

type customerDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type createReservationDTO struct {
	ResourceID       int64       `json:"resource_id"`
	DurationOptionID int64       `json:"duration_option_id"`
	Start            time.Time   `json:"start"`
	Customer         customerDTO `json:"customer"`
}

type createSeriesDTO struct {
	ResourceID       int64       `json:"resource_id"`
	DurationOptionID int64       `json:"duration_option_id"`
	Weekday          int         `json:"weekday"`
	StartTime        string      `json:"start_time"`
	SeriesStart      string      `json:"series_start"`
	SeriesEnd        *string     `json:"series_end,omitempty"`
	HorizonWeeks     int         `json:"horizon_weeks"`
	Timezone         string      `json:"timezone"`
	Customer         customerDTO `json:"customer"`
}

type seriesResultDTO struct {
	Created      int              `json:"created"`
	Skipped      int              `json:"skipped"`
	Reservations []reservationDTO `json:"reservations"`
}

// ErrorResponse модель ошибки от бэкенда
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
