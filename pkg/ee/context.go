package ee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/libee/pkg/ee/observability"
)

// Validity tags stored in Context.objID.
const (
	objIDNone    uint32 = 0
	objIDContext uint32 = 0xFDFD0001
)

// DebugFunc receives debug output from a Context.
// cookie is the value given to SetDebugCallback, passed back verbatim.
// length is len(msg) in bytes.
//
// A DebugFunc must not call Init, Exit or SetDebugCallback.
type DebugFunc func(cookie any, msg string, length int)

// debugSink is the single registered callback and its cookie.
type debugSink struct {
	cb     DebugFunc
	cookie any
}

// Context is the library context. All other library objects operate inside one.
//
// Multiple independent contexts may coexist in one process. A single Context
// is NOT safe for concurrent use; use one Context per goroutine instead.
type Context struct {
	objID uint32
	id    string
	dbg   debugSink

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	spanCtx context.Context
	span    trace.Span

	elapsed func() time.Duration
	emitted int64
}

// Init creates a library context.
//
// Options are validated before anything is allocated: on error the returned
// Context is nil. Exit must be called on a context that is no longer needed.
//
// Example:
//
//	ctx, err := ee.Init(ee.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer ctx.Exit()
func Init(opts ...Option) (*Context, error) {
	cfg := defaultInitConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.idSet && cfg.id == "" {
		return nil, &ContextError{Op: "init", Err: ErrInvalidID}
	}
	id := cfg.id
	if id == "" {
		id = uuid.New().String()
	}

	metrics := cfg.resolveMetrics()
	spans := cfg.resolveSpans()
	spanCtx, span := spans.StartContextSpan(cfg.parent, id)

	c := &Context{
		objID:   objIDContext,
		id:      id,
		dbg:     debugSink{cb: cfg.debugCB, cookie: cfg.debugCookie},
		logger:  observability.EnrichLogger(cfg.logger, id),
		metrics: metrics,
		spans:   spans,
		spanCtx: spanCtx,
		span:    span,
		elapsed: observability.TimedOperation(),
	}

	metrics.RecordContextInit(spanCtx)
	observability.LogContextInit(c.logger, c.dbg.cb != nil)
	return c, nil
}

// Exit discards the context and frees what it owns.
// The context MUST NOT be used afterwards.
//
// Returns a *ContextError wrapping ErrInvalidContext if c is nil, a zero
// value, or already exited. Otherwise it always succeeds.
func (c *Context) Exit() error {
	if err := c.check("exit"); err != nil {
		return err
	}

	lifetime := c.elapsed()
	c.dbg = debugSink{}
	c.metrics.RecordContextExit(c.spanCtx, lifetime)
	c.spans.EndSpanWithError(c.span, nil)
	observability.LogContextExit(c.logger, float64(lifetime.Milliseconds()), c.emitted)

	c.objID = objIDNone
	c.span = nil
	c.spanCtx = nil
	return nil
}

// SetDebugCallback sets the debug message handler, replacing any previous one.
// Pass a nil cb to disable debug output.
//
// The callback is invoked synchronously with cookie, the message and its
// length. It must not call any Context API.
func (c *Context) SetDebugCallback(cb DebugFunc, cookie any) error {
	if err := c.check("set_debug_callback"); err != nil {
		return err
	}
	c.dbg = debugSink{cb: cb, cookie: cookie}
	observability.LogDebugSinkChanged(c.logger, cb != nil)
	return nil
}

// DebugEnabled reports whether a debug callback is registered.
// Callers can use it to skip building expensive messages.
func (c *Context) DebugEnabled() bool {
	return c.Valid() && c.dbg.cb != nil
}

// Debugf formats a message and emits it to the debug callback.
// It is a no-op when no callback is registered.
func (c *Context) Debugf(format string, args ...any) {
	if !c.DebugEnabled() {
		return
	}
	c.DebugMsg(fmt.Sprintf(format, args...))
}

// DebugMsg emits msg to the debug callback. The calling goroutine blocks
// until the callback returns. It is a no-op when no callback is registered.
func (c *Context) DebugMsg(msg string) {
	if !c.DebugEnabled() {
		return
	}
	sink, spanCtx := c.dbg, c.spanCtx
	sink.cb(sink.cookie, msg, len(msg))

	c.emitted++
	c.metrics.RecordDebugMessage(spanCtx, len(msg))
	c.spans.AddSpanEvent(spanCtx, "ee.debug", attribute.Int("debug.length", len(msg)))
}

// ID returns the context identifier.
func (c *Context) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// Logger returns the context's lifecycle logger, enriched with context_id.
// Returns slog.Default() for an invalid context.
func (c *Context) Logger() *slog.Logger {
	if !c.Valid() {
		return slog.Default()
	}
	return c.logger
}

// Valid reports whether c carries the context validity tag.
// It is a best-effort check; it cannot detect every misuse.
func (c *Context) Valid() bool {
	return c != nil && c.objID == objIDContext
}

// check fails fast on a handle that does not carry the validity tag.
func (c *Context) check(op string) error {
	if c.Valid() {
		return nil
	}
	err := &ContextError{Op: op, Err: ErrInvalidContext}
	if c != nil {
		err.ContextID = c.id
		observability.LogInvalidHandle(c.logger, op, err)
	}
	return err
}
