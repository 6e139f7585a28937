package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Значения по умолчанию.
const (
	DefaultServiceName       = "minimal-otel-app"
	DefaultEndpoint          = "http://splunk-collector:4317"
	DefaultProtocol          = ProtocolGRPC
	DefaultExportTimeout     = 10 * time.Second
	DefaultHTTPPort          = "8080"
	DefaultMetricsPort       = "9464"
	DefaultHeartbeatInterval = 5 * time.Second
)

// Протоколы экспорта OTLP.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// Config — настройки процесса. После старта не изменяется.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Endpoint — адрес OTLP коллектора, например http://otel-collector:4317.
	Endpoint      string
	Protocol      string
	ExportTimeout time.Duration

	HTTPPort    string
	MetricsPort string // пустая строка отключает admin listener

	HeartbeatInterval time.Duration
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() Config {
	return Config{
		ServiceName:       DefaultServiceName,
		ServiceVersion:    "dev",
		Endpoint:          DefaultEndpoint,
		Protocol:          DefaultProtocol,
		ExportTimeout:     DefaultExportTimeout,
		HTTPPort:          DefaultHTTPPort,
		MetricsPort:       DefaultMetricsPort,
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// Load читает конфигурацию из переменных окружения поверх значений по умолчанию.
//
// Переменные:
//   - OTEL_SERVICE_NAME
//   - OTEL_EXPORTER_OTLP_ENDPOINT
//   - OTEL_EXPORTER_OTLP_PROTOCOL
//   - OTEL_EXPORTER_OTLP_TIMEOUT (миллисекунды)
//   - HTTP_PORT
//   - METRICS_PORT (может быть пустой)
//   - HEARTBEAT_INTERVAL (time.ParseDuration)
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		cfg.Endpoint = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_PROTOCOL"); ok && v != "" {
		cfg.Protocol = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_TIMEOUT"); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("%w: OTEL_EXPORTER_OTLP_TIMEOUT=%q", ErrInvalidValue, v)
		}
		cfg.ExportTimeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("HTTP_PORT"); ok && v != "" {
		cfg.HTTPPort = v
	}
	if v, ok := lookup("METRICS_PORT"); ok {
		cfg.MetricsPort = v
	}
	if v, ok := lookup("HEARTBEAT_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: HEARTBEAT_INTERVAL=%q", ErrInvalidValue, v)
		}
		cfg.HeartbeatInterval = d
	}

	return cfg, nil
}

// Validate проверяет конфигурацию.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("%w: empty service name", ErrInvalidValue)
	}
	if _, err := ParseEndpoint(c.Endpoint); err != nil {
		return err
	}
	switch c.Protocol {
	case ProtocolGRPC, ProtocolHTTP:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, c.Protocol)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat interval must be positive", ErrInvalidValue)
	}
	if c.ExportTimeout <= 0 {
		return fmt.Errorf("%w: export timeout must be positive", ErrInvalidValue)
	}
	return nil
}

// HTTPAddr возвращает адрес для net.Listen.
func (c Config) HTTPAddr() string {
	return ":" + c.HTTPPort
}

// MetricsAddr возвращает адрес admin listener или пустую строку.
func (c Config) MetricsAddr() string {
	if c.MetricsPort == "" {
		return ""
	}
	return ":" + c.MetricsPort
}

// ParseEndpoint разбирает адрес коллектора.
// Допускаются только абсолютные http/https URL с хостом.
func ParseEndpoint(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidEndpoint, endpoint)
	}
	return u, nil
}
