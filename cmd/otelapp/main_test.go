package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/otelapp/internal/config"
)

func TestRootCmd_InvalidEndpoint(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--endpoint", "not-a-url", "--port", "0", "--metrics-port", ""})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrInvalidEndpoint) {
		t.Errorf("expected ErrInvalidEndpoint, got %v", err)
	}
}

func TestRootCmd_InvalidEnv(t *testing.T) {
	t.Setenv("HEARTBEAT_INTERVAL", "often")

	cmd := newRootCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for positional args")
	}
}

// Отмена до старта сервера (например, SIGTERM во время инициализации)
// приводит к штатной остановке, а не к зависанию.
func TestServe_CancelledBeforeStart(t *testing.T) {
	cfg := config.Default()
	cfg.Endpoint = "http://127.0.0.1:1"
	cfg.ExportTimeout = 100 * time.Millisecond
	cfg.HTTPPort = "0"
	cfg.MetricsPort = ""

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
