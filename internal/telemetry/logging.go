package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
)

// LogLevel определяет уровень логирования из переменной окружения.
// Возможные значения: DEBUG, INFO, WARN, ERROR
// По умолчанию: INFO
func LogLevel() slog.Level {
	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat возвращает формат консольного вывода из LOG_FORMAT:
//   - "json" (по умолчанию) — JSON формат для production
//   - "text" — человекочитаемый формат для разработки
func LogFormat() string {
	if os.Getenv("LOG_FORMAT") == "text" {
		return "text"
	}
	return "json"
}

// LoggerConfig — конфигурация логгера.
type LoggerConfig struct {
	// Console — локальный вывод (обычно os.Stdout).
	Console io.Writer
	Level   slog.Leveler
	Format  string

	// Provider — OTLP провайдер логов (опционально; nil — только консоль).
	Provider log.LoggerProvider
	// Name — имя instrumentation scope в OTLP записях.
	Name string
}

// NewLogger создаёт логгер, который пишет каждую запись в консоль
// и в OTLP провайдер. Глобальный slog.Default не изменяется.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level.Level() == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(console, opts)
	} else {
		handler = slog.NewJSONHandler(console, opts)
	}

	if cfg.Provider == nil {
		return slog.New(handler)
	}

	name := cfg.Name
	if name == "" {
		name = "github.com/shaiso/otelapp"
	}

	remote := &levelHandler{
		level: level,
		next:  otelslog.NewHandler(name, otelslog.WithLoggerProvider(cfg.Provider)),
	}

	return slog.New(slogmulti.Fanout(handler, remote))
}

// levelHandler отсекает записи ниже level.
type levelHandler struct {
	level slog.Leveler
	next  slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.next.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, next: h.next.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, next: h.next.WithGroup(name)}
}

// Ключи контекста для передачи данных в логгер.
type ctxKey string

const (
	// CtxLogger — ключ для логгера в контексте.
	CtxLogger ctxKey = "logger"
)

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, CtxLogger, logger)
}

// FromContext извлекает логгер из контекста.
// Если логгер не найден, возвращает глобальный.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
