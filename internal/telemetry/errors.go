package telemetry

import "errors"

// Ошибки инициализации телеметрии.
var (
	// ErrNoExporter — не задан ни Binding, ни экспортер.
	ErrNoExporter = errors.New("no exporter configured")
)
