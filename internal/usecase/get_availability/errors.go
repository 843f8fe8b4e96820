package get_availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("get_availability: resource not found")

	// ErrDurationOptionNotFound возвращается, когда опция длительности отсутствует в каталоге
	ErrDurationOptionNotFound = errors.New("get_availability: duration option not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrUnavailable бэкенд временно недоступен
	ErrUnavailable = errors.New("get_availability: backend unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
