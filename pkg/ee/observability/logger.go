// Package observability provides logging, metrics, and tracing for libee
// library contexts.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds library context fields to a logger.
// The lifecycle helpers below expect a logger enriched this way.
//
// Example:
//
//	enriched := EnrichLogger(logger, "ctx-123")
//	enriched.Info("parsing") // includes context_id
func EnrichLogger(logger *slog.Logger, contextID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("context_id", contextID))
}

// LogContextInit logs creation of a library context.
func LogContextInit(logger *slog.Logger, debugSink bool) {
	if logger == nil {
		return
	}
	logger.Debug("library context initialized",
		slog.Bool("debug_sink", debugSink),
	)
}

// LogContextExit logs teardown of a library context.
func LogContextExit(logger *slog.Logger, lifetimeMs float64, debugMessages int64) {
	if logger == nil {
		return
	}
	logger.Debug("library context exited",
		slog.Float64("lifetime_ms", lifetimeMs),
		slog.Int64("debug_messages", debugMessages),
	)
}

// LogDebugSinkChanged logs registration or removal of a debug callback.
func LogDebugSinkChanged(logger *slog.Logger, registered bool) {
	if logger == nil {
		return
	}
	msg := "debug callback registered"
	if !registered {
		msg = "debug callback cleared"
	}
	logger.Debug(msg)
}

// LogInvalidHandle logs use of a context that failed the validity check.
func LogInvalidHandle(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("invalid library context",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the time elapsed since
// TimedOperation was called.
//
// Example:
//
//	elapsed := TimedOperation()
//	// ... do work ...
//	LogContextExit(logger, float64(elapsed().Milliseconds()), n)
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
