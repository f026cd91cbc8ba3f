package ee

import (
	"context"
	"log/slog"

	"github.com/randalmurphal/libee/pkg/ee/observability"
)

// initConfig collects Option values before a Context is constructed.
type initConfig struct {
	id    string
	idSet bool

	logger *slog.Logger
	parent context.Context

	debugCB     DebugFunc
	debugCookie any

	metrics         bool
	metricsRecorder observability.MetricsRecorder
	tracing         bool
	spanManager     observability.SpanManager
}

func defaultInitConfig() initConfig {
	return initConfig{
		logger: slog.Default(),
		parent: context.Background(),
	}
}

// Option configures a Context at Init time.
type Option func(*initConfig)

// WithLogger sets the logger used for lifecycle logs.
// The logger is enriched with context_id. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *initConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithID sets the context identifier. If not set, a UUID is generated.
// An empty ID makes Init fail with ErrInvalidID.
func WithID(id string) Option {
	return func(c *initConfig) {
		c.id = id
		c.idSet = true
	}
}

// WithDebugCallback registers a debug sink at creation time.
// Equivalent to calling SetDebugCallback right after Init.
func WithDebugCallback(cb DebugFunc, cookie any) Option {
	return func(c *initConfig) {
		c.debugCB = cb
		c.debugCookie = cookie
	}
}

// WithParent sets the parent context for the lifetime span.
// Default: context.Background()
func WithParent(ctx context.Context) Option {
	return func(c *initConfig) {
		if ctx != nil {
			c.parent = ctx
		}
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *initConfig) {
		c.metrics = enabled
	}
}

// WithMetricsRecorder sets an explicit metrics recorder.
// It takes precedence over WithMetrics.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *initConfig) {
		c.metricsRecorder = r
	}
}

// WithTracing enables OpenTelemetry tracing on the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *initConfig) {
		c.tracing = enabled
	}
}

// WithSpanManager sets an explicit span manager.
// It takes precedence over WithTracing.
func WithSpanManager(m observability.SpanManager) Option {
	return func(c *initConfig) {
		c.spanManager = m
	}
}

func (c initConfig) resolveMetrics() observability.MetricsRecorder {
	if c.metricsRecorder != nil {
		return c.metricsRecorder
	}
	if c.metrics {
		return observability.NewMetricsRecorder()
	}
	return observability.NoopMetrics{}
}

func (c initConfig) resolveSpans() observability.SpanManager {
	if c.spanManager != nil {
		return c.spanManager
	}
	if c.tracing {
		return observability.NewSpanManager()
	}
	return observability.NoopSpanManager{}
}
