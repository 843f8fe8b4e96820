package selection

import "errors"

var (
	// ErrInvalidTransition операция недопустима в текущем состоянии
	ErrInvalidTransition = errors.New("selection: invalid state transition")

	// ErrAvailabilityStale карта ресурса устарела после успеха или конфликта и должна быть перестроена
	ErrAvailabilityStale = errors.New("selection: availability is stale, refresh required")

	// ErrNoAvailability для ресурса и даты не загружена карта доступности
	ErrNoAvailability = errors.New("selection: no availability map for resource and date")

	// ErrUnknownOption опция длительности отсутствует в каталоге
	ErrUnknownOption = errors.New("selection: unknown duration option")

	// ErrSlotUnavailable интервал черновика больше не выполним
	ErrSlotUnavailable = errors.New("selection: slot is no longer available")

	// ErrSubmissionInFlight отправка уже выполняется и не может быть отменена
	ErrSubmissionInFlight = errors.New("selection: submission in flight")

	// ErrValidation данные клиента некорректны, черновик сохранен
	ErrValidation = errors.New("selection: invalid customer data")
)
