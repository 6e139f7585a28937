// Package telemetry обеспечивает наблюдаемость сервиса.
//
// Включает:
//   - binding.go     — привязка к OTLP коллектору (endpoint + протокол)
//   - providers.go   — TracerProvider, MeterProvider, LoggerProvider и инструментация
//   - logging.go     — structured logging через slog (консоль + OTLP)
//   - diagnostics.go — внутренние ошибки OpenTelemetry SDK в stderr
//
// Экспорт в коллектор асинхронный: ошибки доставки не возвращаются
// вызывающему коду, а попадают только в diagnostics.
package telemetry
