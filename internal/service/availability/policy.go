package availability

import (
	"errors"
	"fmt"
)

// UnreportedHourPolicy трактовка часов, по которым бэкенд не прислал сигнал
type UnreportedHourPolicy string

const (
	// AssumeOpen отсутствие сигнала не считается закрытием (поведение по умолчанию)
	AssumeOpen UnreportedHourPolicy = "assume_open"
	// AssumeClosed час без сигнала считается закрытым
	AssumeClosed UnreportedHourPolicy = "assume_closed"
)

// ErrUnknownPolicy неизвестное значение политики
var ErrUnknownPolicy = errors.New("availability: unknown unreported hour policy")

// ParsePolicy разбирает значение из конфигурации, пустая строка означает AssumeOpen
func ParsePolicy(s string) (UnreportedHourPolicy, error) {
	switch UnreportedHourPolicy(s) {
	case "", AssumeOpen:
		return AssumeOpen, nil
	case AssumeClosed:
		return AssumeClosed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
