package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict бэкенд отклонил запись: интервал уже занят
	ErrConflict = errors.New("backend client: conflict")

	// ErrValidation бэкенд отклонил данные запроса
	ErrValidation = errors.New("backend client: validation failed")

	// ErrNotFound запрошенный объект не найден
	ErrNotFound = errors.New("backend client: not found")

	// ErrUnavailable бэкенд недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("backend client: unavailable")

	// ErrInvalidResponse ответ бэкенда не удалось разобрать
	ErrInvalidResponse = errors.New("backend client: invalid response")

	// ErrInternal ошибка формирования запроса
	ErrInternal = errors.New("backend client: internal error")
)

// APIError ошибка с сообщением бэкенда. errors.Is работает по категории (ErrConflict и т.д.).
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// MessageOf текст ошибки от бэкенда, если он был
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
