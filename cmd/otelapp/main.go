// otelapp — минимальный веб-сервис с экспортом логов, метрик и трейсов
// в OTLP коллектор.
//
// Использование:
//
//	otelapp [--endpoint URL] [--protocol grpc|http/protobuf] [--port PORT]
//
// Значения по умолчанию и переменные окружения описаны в internal/config.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/otelapp/internal/app"
	"github.com/shaiso/otelapp/internal/config"
	"github.com/shaiso/otelapp/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, loadErr := config.Load()
	cfg.ServiceVersion = version

	rootCmd := &cobra.Command{
		Use:           "otelapp",
		Short:         "Minimal web service instrumented with OpenTelemetry",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return loadErr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.ServiceName, "service-name", cfg.ServiceName, "service name reported to the telemetry backend")
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "OTLP collector endpoint")
	flags.StringVar(&cfg.Protocol, "protocol", cfg.Protocol, "OTLP protocol: grpc or http/protobuf")
	flags.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP port")
	flags.StringVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "admin port for /healthz and /metrics (empty disables)")

	return rootCmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// graceful shutdown; сигнал во время старта тоже ведёт к остановке
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Ошибки SDK (в том числе экспорта) — только в stderr
	telemetry.InstallDiagnostics(os.Stderr)

	a, err := app.New(ctx, cfg, app.Options{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LogLevel:  telemetry.LogLevel(),
		LogFormat: telemetry.LogFormat(),
	})
	if err != nil {
		return err
	}

	providers := a.Providers()
	providers.Install()
	providers.InstrumentDefaultClient()
	slog.SetDefault(a.Logger())

	return a.Run(ctx)
}
