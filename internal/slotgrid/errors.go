package slotgrid

import "errors"

var (
	// ErrInvalidWindow окно сетки задано некорректно
	ErrInvalidWindow = errors.New("slotgrid: invalid grid window")

	// ErrOutOfWindow время или индекс вне окна сетки
	ErrOutOfWindow = errors.New("slotgrid: out of grid window")

	// ErrOffGrid время не попадает на шаг сетки
	ErrOffGrid = errors.New("slotgrid: time is not on the grid")

	// ErrInvalidDuration длительность не положительна или не кратна шагу сетки
	ErrInvalidDuration = errors.New("slotgrid: invalid duration")
)
