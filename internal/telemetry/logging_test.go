package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func newTestLoggerProvider(exp sdklog.Exporter) *sdklog.LoggerProvider {
	return sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
}

func TestNewLogger_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Console: &buf})

	logger.Info("Hello OpenTelemetry!", "key", "value")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("console output should be JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "Hello OpenTelemetry!" {
		t.Errorf("unexpected msg: %v", line["msg"])
	}
	if line["level"] != "INFO" {
		t.Errorf("unexpected level: %v", line["level"])
	}
	if line["key"] != "value" {
		t.Errorf("unexpected key: %v", line["key"])
	}
}

func TestNewLogger_ConsoleText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Console: &buf, Format: "text"})

	logger.Info("Application stopping")

	if !strings.Contains(buf.String(), `msg="Application stopping"`) {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestNewLogger_FanOut(t *testing.T) {
	var buf bytes.Buffer
	exp := &recordingLogExporter{}
	lp := newTestLoggerProvider(exp)
	defer lp.Shutdown(context.Background())

	logger := NewLogger(LoggerConfig{Console: &buf, Provider: lp})
	logger.Info("Hello OpenTelemetry!", "Time", "now")

	if !strings.Contains(buf.String(), "Hello OpenTelemetry!") {
		t.Errorf("console should receive the record, got %q", buf.String())
	}

	records := exp.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(records))
	}
	if records[0].Body != "Hello OpenTelemetry!" {
		t.Errorf("unexpected body: %q", records[0].Body)
	}
	if records[0].Severity != log.SeverityInfo {
		t.Errorf("expected INFO severity, got %v", records[0].Severity)
	}
	if records[0].Attrs["Time"] != "now" {
		t.Errorf("expected Time attribute, got %v", records[0].Attrs)
	}
}

func TestNewLogger_LevelAppliesToBothSinks(t *testing.T) {
	var buf bytes.Buffer
	exp := &recordingLogExporter{}
	lp := newTestLoggerProvider(exp)
	defer lp.Shutdown(context.Background())

	logger := NewLogger(LoggerConfig{Console: &buf, Provider: lp, Level: slog.LevelWarn})
	logger.Info("dropped")
	logger.With("component", "test").Info("dropped too")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("console should not contain INFO records: %q", buf.String())
	}

	records := exp.Records()
	if len(records) != 1 || records[0].Body != "kept" {
		t.Errorf("expected only the WARN record, got %+v", records)
	}
}

// Ошибка экспорта не возвращается в место вызова логгера.
func TestNewLogger_ExportErrorIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	exp := &recordingLogExporter{err: context.DeadlineExceeded}
	lp := newTestLoggerProvider(exp)
	defer lp.Shutdown(context.Background())

	logger := NewLogger(LoggerConfig{Console: &buf, Provider: lp})
	logger.Info("first")
	logger.Info("second")

	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("console should keep working, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Console: &buf})

	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}

	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger fallback")
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
		"other": slog.LevelInfo,
	}

	for value, want := range tests {
		t.Setenv("LOG_LEVEL", value)
		if got := LogLevel(); got != want {
			t.Errorf("LOG_LEVEL=%q: expected %v, got %v", value, want, got)
		}
	}
}

func TestLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	if LogFormat() != "text" {
		t.Error("expected text")
	}

	t.Setenv("LOG_FORMAT", "")
	if LogFormat() != "json" {
		t.Error("expected json by default")
	}
}
