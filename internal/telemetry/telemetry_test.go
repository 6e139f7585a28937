package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// --- тестовые экспортеры ---

// exportedLog — снимок записи, полученной экспортером.
type exportedLog struct {
	Body     string
	Severity log.Severity
	Attrs    map[string]string
}

// recordingLogExporter запоминает экспортированные записи.
type recordingLogExporter struct {
	mu      sync.Mutex
	records []exportedLog
	err     error
}

func (e *recordingLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range records {
		attrs := make(map[string]string)
		r.WalkAttributes(func(kv log.KeyValue) bool {
			attrs[kv.Key] = kv.Value.String()
			return true
		})
		e.records = append(e.records, exportedLog{
			Body:     r.Body().AsString(),
			Severity: r.Severity(),
			Attrs:    attrs,
		})
	}
	return e.err
}

func (e *recordingLogExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingLogExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingLogExporter) Records() []exportedLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]exportedLog(nil), e.records...)
}

// discardMetricExporter принимает метрики и ничего не делает.
type discardMetricExporter struct{}

func (discardMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (discardMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func (discardMetricExporter) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }
func (discardMetricExporter) ForceFlush(context.Context) error                          { return nil }
func (discardMetricExporter) Shutdown(context.Context) error                            { return nil }

func shutdownCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
