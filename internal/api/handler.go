package api

import (
	"log/slog"
	"net/http"
)

// Instrumenter оборачивает handler инструментацией входящих запросов.
// Реализуется telemetry.Providers.
type Instrumenter interface {
	HTTPHandler(h http.Handler, operation string) http.Handler
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	logger       *slog.Logger
	instrumenter Instrumenter
}

// Config — конфигурация для создания Handler.
type Config struct {
	Logger       *slog.Logger
	Instrumenter Instrumenter // опционально; nil — без инструментации
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		logger:       logger,
		instrumenter: cfg.Instrumenter,
	}
}
