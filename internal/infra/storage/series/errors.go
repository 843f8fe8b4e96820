package series

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("series.repository: series not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("series.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("series.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("series.repository: failed to scan row")
)
