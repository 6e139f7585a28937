package telemetry

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
)

// NewDiagnostics возвращает otel.ErrorHandler, который пишет внутренние
// ошибки SDK (в том числе ошибки экспорта) в w. w == nil означает os.Stderr.
func NewDiagnostics(w io.Writer) otel.ErrorHandler {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, nil)).With("component", "otel")

	return otel.ErrorHandlerFunc(func(err error) {
		logger.Error("telemetry error", "error", err)
	})
}

// InstallDiagnostics регистрирует NewDiagnostics(w) глобально.
func InstallDiagnostics(w io.Writer) {
	otel.SetErrorHandler(NewDiagnostics(w))
}
