package get_catalogue

import "errors"

var (
	// ErrUnavailable бэкенд временно недоступен
	ErrUnavailable = errors.New("get_catalogue: backend unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_catalogue: internal error")
)
