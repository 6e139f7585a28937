package lifecycle

import (
	"context"
	"log/slog"
	"sync"
)

// StoppingMessage — сообщение, которое пишется при остановке.
const StoppingMessage = "Application stopping"

// Coordinator — идемпотентная последовательность остановки.
type Coordinator struct {
	logger *slog.Logger
	cancel context.CancelFunc
	flush  func(context.Context) error

	once sync.Once
	err  error
}

// Config — конфигурация Coordinator.
type Config struct {
	Logger *slog.Logger

	// Cancel отменяет фоновые задачи.
	Cancel context.CancelFunc

	// Flush сбрасывает и закрывает sink логов (опционально).
	Flush func(context.Context) error
}

// New создаёт новый Coordinator.
func New(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		logger: logger,
		cancel: cfg.Cancel,
		flush:  cfg.Flush,
	}
}

// Stop выполняет остановку. Повторные и конкурентные вызовы ждут
// первого и возвращают его результат.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}

		c.logger.InfoContext(ctx, StoppingMessage)

		if c.flush != nil {
			c.err = c.flush(ctx)
		}
	})
	return c.err
}
