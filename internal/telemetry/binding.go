package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"

	"github.com/shaiso/otelapp/internal/config"
)

// Binding — настройки транспорта до OTLP коллектора.
//
// Общий для логов, метрик и трейсов. Создание Binding и экспортеров
// не устанавливает соединение: недоступный коллектор проявится только
// при экспорте, через otel.ErrorHandler.
type Binding struct {
	endpoint *url.URL
	protocol string
	timeout  time.Duration
}

// NewBinding проверяет endpoint и протокол и возвращает Binding.
// timeout <= 0 заменяется значением по умолчанию.
func NewBinding(endpoint, protocol string, timeout time.Duration) (Binding, error) {
	u, err := config.ParseEndpoint(endpoint)
	if err != nil {
		return Binding{}, err
	}

	switch protocol {
	case config.ProtocolGRPC, config.ProtocolHTTP:
	default:
		return Binding{}, fmt.Errorf("%w: %q", config.ErrUnknownProtocol, protocol)
	}

	if timeout <= 0 {
		timeout = config.DefaultExportTimeout
	}

	return Binding{endpoint: u, protocol: protocol, timeout: timeout}, nil
}

// Endpoint возвращает адрес коллектора.
func (b Binding) Endpoint() string {
	if b.endpoint == nil {
		return ""
	}
	return b.endpoint.String()
}

// Protocol возвращает протокол экспорта.
func (b Binding) Protocol() string {
	return b.protocol
}

// Insecure сообщает, используется ли транспорт без TLS (схема http).
func (b Binding) Insecure() bool {
	return b.endpoint != nil && b.endpoint.Scheme == "http"
}

// urlPath — путь сигнала для http/protobuf относительно базового пути endpoint.
func (b Binding) urlPath(signal string) string {
	return strings.TrimSuffix(b.endpoint.Path, "/") + "/v1/" + signal
}

func (b Binding) grpcCredentials() credentials.TransportCredentials {
	return credentials.NewClientTLSFromCert(nil, "")
}

func (b Binding) tlsConfig() *tls.Config {
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// SpanExporter создаёт OTLP экспортер трейсов.
func (b Binding) SpanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if b.protocol == config.ProtocolHTTP {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(b.endpoint.Host),
			otlptracehttp.WithURLPath(b.urlPath("traces")),
			otlptracehttp.WithTimeout(b.timeout),
		}
		if b.Insecure() {
			opts = append(opts, otlptracehttp.WithInsecure())
		} else {
			opts = append(opts, otlptracehttp.WithTLSClientConfig(b.tlsConfig()))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(b.endpoint.Host),
		otlptracegrpc.WithTimeout(b.timeout),
	}
	if b.Insecure() {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(b.grpcCredentials()))
	}
	return otlptracegrpc.New(ctx, opts...)
}

// MetricExporter создаёт OTLP экспортер метрик.
func (b Binding) MetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	if b.protocol == config.ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(b.endpoint.Host),
			otlpmetrichttp.WithURLPath(b.urlPath("metrics")),
			otlpmetrichttp.WithTimeout(b.timeout),
		}
		if b.Insecure() {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else {
			opts = append(opts, otlpmetrichttp.WithTLSClientConfig(b.tlsConfig()))
		}
		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(b.endpoint.Host),
		otlpmetricgrpc.WithTimeout(b.timeout),
	}
	if b.Insecure() {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(b.grpcCredentials()))
	}
	return otlpmetricgrpc.New(ctx, opts...)
}

// LogExporter создаёт OTLP экспортер логов.
func (b Binding) LogExporter(ctx context.Context) (sdklog.Exporter, error) {
	if b.protocol == config.ProtocolHTTP {
		opts := []otlploghttp.Option{
			otlploghttp.WithEndpoint(b.endpoint.Host),
			otlploghttp.WithURLPath(b.urlPath("logs")),
			otlploghttp.WithTimeout(b.timeout),
		}
		if b.Insecure() {
			opts = append(opts, otlploghttp.WithInsecure())
		} else {
			opts = append(opts, otlploghttp.WithTLSClientConfig(b.tlsConfig()))
		}
		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(b.endpoint.Host),
		otlploggrpc.WithTimeout(b.timeout),
	}
	if b.Insecure() {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else {
		opts = append(opts, otlploggrpc.WithTLSCredentials(b.grpcCredentials()))
	}
	return otlploggrpc.New(ctx, opts...)
}
