package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config — конфигурация для создания Providers.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Binding — транспорт до коллектора для всех трёх сигналов.
	Binding Binding

	// Экспортеры (опционально; если nil — создаются из Binding).
	SpanExporter   sdktrace.SpanExporter
	MetricExporter sdkmetric.Exporter
	LogExporter    sdklog.Exporter

	// Дополнительные metric readers, например ManualReader в тестах.
	MetricReaders []sdkmetric.Reader
}

// Providers — OpenTelemetry провайдеры процесса.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
	Logger *sdklog.LoggerProvider

	registry   *prometheus.Registry
	propagator propagation.TextMapPropagator
	instanceID string
}

// New создаёт провайдеры и регистрирует источники инструментации runtime.
//
// Инструментация HTTP сервера и клиента подключается через HTTPHandler
// и HTTPTransport. Экспорт в коллектор начинается в фоне.
func New(ctx context.Context, cfg Config) (*Providers, error) {
	instanceID := uuid.NewString()

	res, err := newResource(ctx, cfg, instanceID)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	spanExp, metricExp, logExp, err := exporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	promReader, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		shutdownExporters(ctx, spanExp, metricExp, logExp)
		return nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	meterOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithReader(promReader),
	}
	for _, r := range cfg.MetricReaders {
		meterOpts = append(meterOpts, sdkmetric.WithReader(r))
	}

	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(spanExp),
		),
		Meter: sdkmetric.NewMeterProvider(meterOpts...),
		Logger: sdklog.NewLoggerProvider(
			sdklog.WithResource(res),
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
		),
		registry: registry,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		instanceID: instanceID,
	}

	if err := runtime.Start(runtime.WithMeterProvider(p.Meter)); err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("start runtime instrumentation: %w", err)
	}

	return p, nil
}

func newResource(ctx context.Context, cfg Config, instanceID string) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("service.instance.id", instanceID),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	// Частичный resource пригоден: отсутствует только часть атрибутов хоста
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, err
	}
	return res, nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// exporters собирает экспортеры трёх сигналов. При ошибке уже собранные
// экспортеры останавливаются: без провайдера их никто не закроет.
func exporters(ctx context.Context, cfg Config) (sdktrace.SpanExporter, sdkmetric.Exporter, sdklog.Exporter, error) {
	var built []shutdowner
	fail := func(err error) (sdktrace.SpanExporter, sdkmetric.Exporter, sdklog.Exporter, error) {
		shutdownExporters(ctx, built...)
		return nil, nil, nil, err
	}

	spanExp := cfg.SpanExporter
	if spanExp == nil {
		if cfg.Binding.endpoint == nil {
			return fail(ErrNoExporter)
		}
		exp, err := cfg.Binding.SpanExporter(ctx)
		if err != nil {
			return fail(fmt.Errorf("span exporter: %w", err))
		}
		spanExp = exp
	}
	built = append(built, spanExp)

	metricExp := cfg.MetricExporter
	if metricExp == nil {
		if cfg.Binding.endpoint == nil {
			return fail(ErrNoExporter)
		}
		exp, err := cfg.Binding.MetricExporter(ctx)
		if err != nil {
			return fail(fmt.Errorf("metric exporter: %w", err))
		}
		metricExp = exp
	}
	built = append(built, metricExp)

	logExp := cfg.LogExporter
	if logExp == nil {
		if cfg.Binding.endpoint == nil {
			return fail(ErrNoExporter)
		}
		exp, err := cfg.Binding.LogExporter(ctx)
		if err != nil {
			return fail(fmt.Errorf("log exporter: %w", err))
		}
		logExp = exp
	}

	return spanExp, metricExp, logExp, nil
}

// shutdownExporters закрывает экспортеры, не ставшие частью провайдеров.
// Ошибки остановки игнорируются.
func shutdownExporters(ctx context.Context, exps ...shutdowner) {
	for _, exp := range exps {
		_ = exp.Shutdown(ctx)
	}
}

// InstanceID возвращает значение service.instance.id.
func (p *Providers) InstanceID() string {
	return p.instanceID
}

// Install регистрирует провайдеры и propagator глобально.
// Нужен библиотекам, которые берут провайдеры из otel.
func (p *Providers) Install() {
	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(p.propagator)
	global.SetLoggerProvider(p.Logger)
}

// HTTPHandler оборачивает handler инструментацией входящих запросов
// (spans + метрики http.server.*).
func (p *Providers) HTTPHandler(h http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(h, operation,
		otelhttp.WithTracerProvider(p.Tracer),
		otelhttp.WithMeterProvider(p.Meter),
		otelhttp.WithPropagators(p.propagator),
	)
}

// HTTPTransport оборачивает base инструментацией исходящих запросов
// (spans + метрики http.client.*). base == nil означает http.DefaultTransport.
func (p *Providers) HTTPTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base,
		otelhttp.WithTracerProvider(p.Tracer),
		otelhttp.WithMeterProvider(p.Meter),
		otelhttp.WithPropagators(p.propagator),
	)
}

// InstrumentDefaultClient подключает инструментацию к http.DefaultClient,
// чтобы все исходящие запросы процесса попадали в трейсы и метрики.
func (p *Providers) InstrumentDefaultClient() {
	http.DefaultClient.Transport = p.HTTPTransport(http.DefaultClient.Transport)
}

// MetricsHandler отдаёт метрики в формате Prometheus.
func (p *Providers) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Shutdown сбрасывает буферы и закрывает все провайдеры.
// После Shutdown записи в LoggerProvider отбрасываются.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Tracer.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Logger.Shutdown(ctx),
	)
}
