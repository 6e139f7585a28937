package app

import "errors"

// Ошибки приложения.
var (
	// ErrAlreadyRunning — Run вызван повторно.
	ErrAlreadyRunning = errors.New("app already running")
)
