package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// Client клиент авторитетного бэкенда бронирований
type Client struct {
	baseURL    string
	tenantID   string
	location   *time.Location
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента бэкенда
func NewClient(baseURL string, timeout time.Duration, tenantID string, location *time.Location, log Logger) *Client {
	if location == nil {
		location = time.UTC
	}
	return &Client{
		baseURL:  baseURL,
		tenantID: tenantID,
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetResources список ресурсов арендатора
func (c *Client) GetResources(ctx context.Context) ([]domain.Resource, error) {
	var dtos []resourceDTO
	if err := c.do(ctx, http.MethodGet, "/resources", nil, nil, nil, &dtos); err != nil {
		return nil, err
	}

	resources := make([]domain.Resource, 0, len(dtos))
	for _, dto := range dtos {
		resources = append(resources, domain.Resource{ID: dto.ID, Name: dto.Name, IsActive: dto.IsActive})
	}
	return resources, nil
}

// GetDurationOptions каталог длительностей
func (c *Client) GetDurationOptions(ctx context.Context) ([]domain.DurationOption, error) {
	var dtos []durationOptionDTO
	if err := c.do(ctx, http.MethodGet, "/duration-options", nil, nil, nil, &dtos); err != nil {
		return nil, err
	}

	options := make([]domain.DurationOption, 0, len(dtos))
	for _, dto := range dtos {
		options = append(options, domain.DurationOption{
			ID:              dto.ID,
			DurationMinutes: dto.DurationMinutes,
			Price:           dto.Price,
			IsActive:        dto.IsActive,
		})
	}
	return options, nil
}

// GetAvailability почасовой сигнал доступности ресурса на дату для базовой длительности
func (c *Client) GetAvailability(ctx context.Context, resourceID, durationOptionID int64, date time.Time) ([]domain.HourAvailability, error) {
	query := url.Values{}
	query.Set("durationOptionId", strconv.FormatInt(durationOptionID, 10))
	query.Set("date", date.Format(domain.DateFormat))

	var dtos []hourAvailabilityDTO
	path := fmt.Sprintf("/resources/%d/availability", resourceID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, nil, &dtos); err != nil {
		return nil, err
	}

	signal := make([]domain.HourAvailability, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Hour < 0 || dto.Hour > 23 {
			return nil, fmt.Errorf("%w: hour %d out of range", ErrInvalidResponse, dto.Hour)
		}
		signal = append(signal, domain.HourAvailability{Hour: dto.Hour, Available: dto.Available})
	}
	return signal, nil
}

// GetReservations бронирования ресурса на дату в локальном времени арендатора
func (c *Client) GetReservations(ctx context.Context, resourceID int64, date time.Time) ([]domain.Reservation, error) {
	query := url.Values{}
	query.Set("date", date.Format(domain.DateFormat))

	var dtos []reservationDTO
	path := fmt.Sprintf("/resources/%d/reservations", resourceID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, nil, &dtos); err != nil {
		return nil, err
	}

	reservations := make([]domain.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		r, err := toLocalReservation(dto, c.location)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, nil
}

// CreateReservation создает бронирование. Единственный источник истины об успехе.
func (c *Client) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	start, err := toWireStart(req.Date, req.StartTime, c.location)
	if err != nil {
		return nil, err
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	body := createReservationDTO{
		ResourceID:       req.ResourceID,
		DurationOptionID: req.DurationOptionID,
		Start:            start,
		Customer:         toCustomerDTO(req.Customer),
	}

	var dto reservationDTO
	headers := map[string]string{"Idempotency-Key": key}
	if err := c.do(ctx, http.MethodPost, "/reservations", nil, body, headers, &dto); err != nil {
		return nil, err
	}

	r, err := toLocalReservation(dto, c.location)
	if err != nil {
		return nil, err
	}

	c.log.Info("CreateReservation: created id=%d resource=%d start=%s", r.ID, r.ResourceID, start.Format(time.RFC3339))
	return &r, nil
}

// CreateSeries передает правило серии бэкенду для пакетной генерации
func (c *Client) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*SeriesResult, error) {
	body := createSeriesDTO{
		ResourceID:       req.ResourceID,
		DurationOptionID: req.DurationOptionID,
		Weekday:          int(req.Weekday),
		StartTime:        req.StartTime.String(),
		SeriesStart:      req.SeriesStart.Format(domain.DateFormat),
		HorizonWeeks:     req.HorizonWeeks,
		Timezone:         c.location.String(),
		Customer:         toCustomerDTO(req.Customer),
	}
	if req.SeriesEnd != nil {
		end := req.SeriesEnd.Format(domain.DateFormat)
		body.SeriesEnd = &end
	}

	var dto seriesResultDTO
	if err := c.do(ctx, http.MethodPost, "/series", nil, body, nil, &dto); err != nil {
		return nil, err
	}

	result := &SeriesResult{
		Created:      dto.Created,
		Skipped:      dto.Skipped,
		Reservations: make([]domain.Reservation, 0, len(dto.Reservations)),
	}
	for _, r := range dto.Reservations {
		local, err := toLocalReservation(r, c.location)
		if err != nil {
			return nil, err
		}
		result.Reservations = append(result.Reservations, local)
	}
	return result, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body interface{},
	headers map[string]string,
	out interface{},
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tenantID != "" {
		req.Header.Set("X-Tenant-ID", c.tenantID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.log.Warn("Backend: %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return c.apiError(resp, ErrConflict)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return c.apiError(resp, ErrValidation)
	case resp.StatusCode == http.StatusNotFound:
		return c.apiError(resp, ErrNotFound)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.log.Warn("Backend: %s %s returned status %d", method, path, resp.StatusCode)
		return c.apiError(resp, ErrUnavailable)
	default:
		return c.apiError(resp, ErrInvalidResponse)
	}

	if out == nil {
		return nil
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response, kind error) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := ""
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	} else if len(data) > 0 && !json.Valid(data) {
		message = string(bytes.TrimSpace(data))
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message, kind: kind}
}
