package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/shaiso/otelapp/internal/api"
	"github.com/shaiso/otelapp/internal/config"
	"github.com/shaiso/otelapp/internal/heartbeat"
	"github.com/shaiso/otelapp/internal/lifecycle"
	"github.com/shaiso/otelapp/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// State — состояние HTTP сервера.
type State int32

const (
	StateNew State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options — окружение процесса. Пустые поля заменяются os.Stdout/os.Stderr.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// LogLevel и LogFormat консольного вывода (default: INFO, json).
	LogLevel  slog.Leveler
	LogFormat string

	// Telemetry переопределяет экспортеры (тесты). Binding заполняется из cfg.
	Telemetry telemetry.Config
}

// App — сервис: HTTP сервер, admin listener, heartbeat и остановка.
type App struct {
	cfg       config.Config
	logger    *slog.Logger
	providers *telemetry.Providers

	server      *http.Server
	admin       *http.Server
	heartbeat   *heartbeat.Heartbeat
	coordinator *lifecycle.Coordinator
	bgCtx       context.Context
	stderr      io.Writer

	state   atomic.Int32
	addr    atomic.Value // net.Addr
	ready   chan struct{}
	started time.Time
}

// New проверяет конфигурацию и собирает компоненты.
// Ошибка конфигурации возвращается до открытия сокетов.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	binding, err := telemetry.NewBinding(cfg.Endpoint, cfg.Protocol, cfg.ExportTimeout)
	if err != nil {
		return nil, fmt.Errorf("exporter binding: %w", err)
	}

	tcfg := opts.Telemetry
	tcfg.ServiceName = cfg.ServiceName
	tcfg.ServiceVersion = cfg.ServiceVersion
	tcfg.Binding = binding

	providers, err := telemetry.New(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	logger := telemetry.NewLogger(telemetry.LoggerConfig{
		Console:  stdout,
		Level:    opts.LogLevel,
		Format:   opts.LogFormat,
		Provider: providers.Logger,
		Name:     cfg.ServiceName,
	})

	bgCtx, cancelBg := context.WithCancel(context.Background())

	a := &App{
		cfg:       cfg,
		logger:    logger,
		providers: providers,
		heartbeat: heartbeat.New(heartbeat.Config{
			Logger:   logger,
			Interval: cfg.HeartbeatInterval,
		}),
		bgCtx:  bgCtx,
		stderr: stderr,
		ready:  make(chan struct{}),
	}

	a.coordinator = lifecycle.New(lifecycle.Config{
		Logger: logger,
		Cancel: cancelBg,
		Flush:  providers.Shutdown,
	})

	mux := http.NewServeMux()
	api.NewHandler(api.Config{
		Logger:       logger,
		Instrumenter: providers,
	}).RegisterRoutes(mux)

	a.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	if addr := cfg.MetricsAddr(); addr != "" {
		a.admin = &http.Server{
			Addr:              addr,
			Handler:           a.adminMux(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	logger.Info("app configured",
		"service", cfg.ServiceName,
		"endpoint", binding.Endpoint(),
		"protocol", binding.Protocol(),
		"instance_id", providers.InstanceID(),
	)

	return a, nil
}

// Logger возвращает логгер приложения.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Providers возвращает провайдеры телеметрии.
func (a *App) Providers() *telemetry.Providers {
	return a.providers
}

// Heartbeat возвращает фоновую задачу.
func (a *App) Heartbeat() *heartbeat.Heartbeat {
	return a.heartbeat
}

// State возвращает текущее состояние сервера.
func (a *App) State() State {
	return State(a.state.Load())
}

// Ready закрывается, когда сервер начал принимать соединения.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// Addr возвращает адрес HTTP сервера после Ready.
func (a *App) Addr() net.Addr {
	if v, ok := a.addr.Load().(net.Addr); ok {
		return v
	}
	return nil
}

// Run запускает сервер и heartbeat и блокируется до отмены ctx
// или ошибки сервера. Затем выполняет остановку.
func (a *App) Run(ctx context.Context) error {
	if !a.state.CompareAndSwap(int32(StateNew), int32(StateRunning)) {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", a.cfg.HTTPAddr())
	if err != nil {
		a.state.Store(int32(StateStopped))
		_ = a.coordinator.Stop(context.Background())
		return fmt.Errorf("listen %s: %w", a.cfg.HTTPAddr(), err)
	}
	a.addr.Store(ln.Addr())
	a.started = time.Now()

	serveErr := make(chan error, 2)
	go func() {
		a.logger.Info("listening", "addr", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if a.admin != nil {
		go func() {
			a.logger.Info("admin listening", "addr", a.admin.Addr)
			if err := a.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("admin server error", "error", err)
			}
		}()
	}

	go a.heartbeat.Run(a.bgCtx)
	close(a.ready)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-serveErr:
		a.logger.Error("server error", "error", runErr)
	}

	a.shutdown()
	return runErr
}

// shutdown останавливает приём запросов и запускает Coordinator.
func (a *App) shutdown() {
	a.state.Store(int32(StateStopping))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}
	if a.admin != nil {
		if err := a.admin.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("admin shutdown error", "error", err)
		}
	}

	// Flush без дедлайна: экспортеры ограничены собственным таймаутом
	if err := a.coordinator.Stop(context.Background()); err != nil {
		fmt.Fprintf(a.stderr, "telemetry flush: %v\n", err)
	}

	a.state.Store(int32(StateStopped))
}

func (a *App) adminMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		api.Text(w, http.StatusOK, fmt.Sprintf("ok %s", time.Since(a.started)))
	})
	mux.Handle("GET /metrics", a.providers.MetricsHandler())
	return mux
}
