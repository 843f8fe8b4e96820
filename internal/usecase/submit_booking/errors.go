package submit_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrConflict слот занят: бэкенд отклонил бронирование или черновик больше не выполним
	ErrConflict = errors.New("submit_booking: slot no longer available")

	// ErrValidation данные черновика отклонены
	ErrValidation = errors.New("submit_booking: booking data rejected")

	// ErrTransient временная ошибка бэкенда, можно повторить
	ErrTransient = errors.New("submit_booking: temporary failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
