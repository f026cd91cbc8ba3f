package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName is the meter and tracer name.
const instrumentationName = "github.com/randalmurphal/libee"

// MetricsRecorder records library context metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordContextInit records creation of a context.
	RecordContextInit(ctx context.Context)

	// RecordContextExit records teardown of a context and its lifetime.
	RecordContextExit(ctx context.Context, lifetime time.Duration)

	// RecordDebugMessage records one message delivered to a debug callback.
	RecordDebugMessage(ctx context.Context, length int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inits         metric.Int64Counter
	exits         metric.Int64Counter
	live          metric.Int64UpDownCounter
	lifetime      metric.Float64Histogram
	debugMessages metric.Int64Counter
	debugBytes    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the metrics instance bound to the global provider.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on the given provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(instrumentationName)

	inits, err := meter.Int64Counter("ee.context.inits",
		metric.WithDescription("Number of library contexts created"),
	)
	if err != nil {
		return nil, err
	}

	exits, err := meter.Int64Counter("ee.context.exits",
		metric.WithDescription("Number of library contexts exited"),
	)
	if err != nil {
		return nil, err
	}

	live, err := meter.Int64UpDownCounter("ee.context.live",
		metric.WithDescription("Number of library contexts not yet exited"),
	)
	if err != nil {
		return nil, err
	}

	lifetime, err := meter.Float64Histogram("ee.context.lifetime_ms",
		metric.WithDescription("Library context lifetime in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	debugMessages, err := meter.Int64Counter("ee.debug.messages",
		metric.WithDescription("Number of messages delivered to debug callbacks"),
	)
	if err != nil {
		return nil, err
	}

	debugBytes, err := meter.Int64Histogram("ee.debug.bytes",
		metric.WithDescription("Debug message length in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inits:         inits,
		exits:         exits,
		live:          live,
		lifetime:      lifetime,
		debugMessages: debugMessages,
		debugBytes:    debugBytes,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder bound to provider
// instead of the global one.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	m, err := newOtelMetrics(provider)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordContextInit records a context creation.
func (m *otelMetrics) RecordContextInit(ctx context.Context) {
	m.inits.Add(ctx, 1)
	m.live.Add(ctx, 1)
}

// RecordContextExit records a context teardown.
func (m *otelMetrics) RecordContextExit(ctx context.Context, lifetime time.Duration) {
	m.exits.Add(ctx, 1)
	m.live.Add(ctx, -1)
	m.lifetime.Record(ctx, float64(lifetime.Milliseconds()))
}

// RecordDebugMessage records a delivered debug message.
func (m *otelMetrics) RecordDebugMessage(ctx context.Context, length int) {
	m.debugMessages.Add(ctx, 1)
	m.debugBytes.Record(ctx, int64(length))
}
