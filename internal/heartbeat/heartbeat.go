package heartbeat

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Default configuration values.
const (
	defaultInterval = 5 * time.Second

	// Template — шаблон сообщения; {Time} заменяется текущим временем.
	Template = "Background log at {Time}"
)

// Heartbeat — фоновая задача периодического логирования.
type Heartbeat struct {
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	emitted atomic.Int64
}

// Config — конфигурация Heartbeat.
type Config struct {
	Logger   *slog.Logger
	Interval time.Duration    // интервал между записями (default: 5s)
	Now      func() time.Time // источник времени (default: time.Now)
}

// New создаёт новый Heartbeat.
func New(cfg Config) *Heartbeat {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Heartbeat{
		logger:   logger,
		interval: interval,
		now:      now,
	}
}

// Run пишет записи до отмены ctx. Блокирует вызывающую горутину.
func (h *Heartbeat) Run(ctx context.Context) {
	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	for ctx.Err() == nil {
		h.emit(ctx)

		timer.Reset(h.interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Emitted возвращает количество записанных событий.
func (h *Heartbeat) Emitted() int64 {
	return h.emitted.Load()
}

// Interval возвращает интервал между записями.
func (h *Heartbeat) Interval() time.Duration {
	return h.interval
}

func (h *Heartbeat) emit(ctx context.Context) {
	now := h.now()
	msg := strings.Replace(Template, "{Time}", now.Format(time.RFC3339Nano), 1)

	h.logger.LogAttrs(ctx, slog.LevelInfo, msg, slog.Time("Time", now))
	h.emitted.Add(1)
}
