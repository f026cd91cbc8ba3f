package ee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/libee/pkg/ee/observability"
)

// call is one observed debug callback invocation.
type call struct {
	cb     string
	cookie any
	msg    string
	length int
}

// callLog collects invocations from several named callbacks.
type callLog struct {
	calls []call
}

func (l *callLog) callback(name string) DebugFunc {
	return func(cookie any, msg string, length int) {
		l.calls = append(l.calls, call{cb: name, cookie: cookie, msg: msg, length: length})
	}
}

// newTestMetrics returns a recorder on a private provider and its reader.
func newTestMetrics(t *testing.T) (observability.MetricsRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	recorder, err := observability.NewMetricsRecorderWithProvider(provider)
	require.NoError(t, err)
	return recorder, reader
}

// sumMetric returns the value of a single-point int64 sum, 0 if not reported.
func sumMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "Expected Sum type for %s", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

// newTestSpans returns a span manager backed by an in-memory exporter.
func newTestSpans(t *testing.T) (observability.SpanManager, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return observability.NewSpanManagerWithProvider(tp), exporter
}
