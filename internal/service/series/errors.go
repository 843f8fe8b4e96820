package series

import "errors"

var (
	// ErrInvalidRule правило серии некорректно
	ErrInvalidRule = errors.New("series: invalid series rule")

	// ErrSeriesNotFound серия не найдена
	ErrSeriesNotFound = errors.New("series: series not found")

	// ErrSeriesInactive серия деактивирована и не может изменяться
	ErrSeriesInactive = errors.New("series: series is inactive")

	// ErrInvalidTruncate новая дата окончания должна быть раньше текущей и не раньше начала серии
	ErrInvalidTruncate = errors.New("series: series end can only be moved earlier")

	// ErrUnavailable бэкенд временно недоступен
	ErrUnavailable = errors.New("series: backend unavailable")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("series: internal error")
)
