package sessions

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истекла
	ErrSessionNotFound = errors.New("sessions: session not found")
)
