// Package setup builds a library context from a configuration document.
//
// Recognized keys:
//
//	id: ingest-1          # optional, a UUID otherwise
//	metrics: true         # OpenTelemetry metrics on the global provider
//	tracing: false        # OpenTelemetry tracing on the global provider
//	log_level: info       # lifecycle log level
//	debug:
//	  output: stderr      # none|stderr|stdout|log|json|memory|sqlite
//	  prefix: "libee: "   # stderr/stdout only
//	  capacity: 1000      # memory only
//	  path: ./debug.db    # sqlite only
//	  busy_timeout: 5s    # sqlite only
//
// The debug callback is registered with the context ID as cookie. A callback
// passed in code through WithContextOptions(ee.WithDebugCallback(...)) takes
// precedence: the configured output is then not opened. Unknown top-level
// keys are logged at WARN and otherwise ignored.
package setup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/randalmurphal/libee/pkg/ee"
	"github.com/randalmurphal/libee/pkg/ee/config"
	"github.com/randalmurphal/libee/pkg/ee/debuglog"
	"github.com/randalmurphal/libee/pkg/ee/debugsink"
)

// Debug output kinds accepted in debug.output.
const (
	OutputNone   = "none"
	OutputStderr = "stderr"
	OutputStdout = "stdout"
	OutputLog    = "log"
	OutputJSON   = "json"
	OutputMemory = "memory"
	OutputSQLite = "sqlite"
)

// DefaultRecorderCapacity is used for the memory output when debug.capacity is unset.
const DefaultRecorderCapacity = 1000

// Sentinel errors for configuration problems.
var (
	// ErrUnknownOutput indicates an unsupported debug.output value.
	ErrUnknownOutput = errors.New("unknown debug output")

	// ErrPathRequired indicates the sqlite output was selected without debug.path.
	ErrPathRequired = errors.New("debug.path required for sqlite output")
)

// knownKeys are the top-level keys FromConfig reads.
var knownKeys = map[string]bool{
	"id":        true,
	"metrics":   true,
	"tracing":   true,
	"log_level": true,
	"debug":     true,
}

// Env is a configured library context together with the debug resources it owns.
type Env struct {
	Context *ee.Context
	Logger  *slog.Logger

	// Recorder is set for the memory output.
	Recorder *debugsink.Recorder
	// Store is set for the sqlite output.
	Store debuglog.Store
}

// Option configures how FromConfig builds an Env.
type Option func(*builder)

type builder struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	ctxOpts []ee.Option
}

// WithStdout replaces os.Stdout as the stdout output target.
func WithStdout(w io.Writer) Option {
	return func(b *builder) { b.stdout = w }
}

// WithStderr replaces os.Stderr as the stderr and json output target and as
// the destination of the default logger.
func WithStderr(w io.Writer) Option {
	return func(b *builder) { b.stderr = w }
}

// WithLogger replaces the logger built from log_level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

// WithContextOptions appends ee options. They are applied after the ones
// derived from configuration and win on conflict.
func WithContextOptions(opts ...ee.Option) Option {
	return func(b *builder) { b.ctxOpts = append(b.ctxOpts, opts...) }
}

// FromFile loads a YAML or JSON file and calls FromConfig.
func FromFile(path string, opts ...Option) (*Env, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}

// FromConfig creates a library context as described by cfg.
// On error nothing is left open.
func FromConfig(cfg config.Config, opts ...Option) (*Env, error) {
	b := &builder{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(b.stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel("log_level", slog.LevelInfo),
		}))
	}

	warnUnknownKeys(b.logger, cfg)

	ctxOpts := []ee.Option{
		ee.WithLogger(b.logger),
		ee.WithMetrics(cfg.Bool("metrics", false)),
		ee.WithTracing(cfg.Bool("tracing", false)),
	}
	if cfg.Has("id") {
		ctxOpts = append(ctxOpts, ee.WithID(cfg.String("id", "")))
	}
	ctxOpts = append(ctxOpts, b.ctxOpts...)

	ctx, err := ee.Init(ctxOpts...)
	if err != nil {
		return nil, err
	}

	env := &Env{Context: ctx, Logger: b.logger}
	if ctx.DebugEnabled() {
		b.logger.Debug("debug callback set in code, configured output ignored",
			slog.String("output", cfg.Sub("debug").String("output", OutputNone)))
		return env, nil
	}

	sink, err := b.debugSink(cfg.Sub("debug"), env)
	if err != nil {
		_ = ctx.Exit()
		return nil, err
	}
	if sink == nil {
		return env, nil
	}
	if err := ctx.SetDebugCallback(sink, ctx.ID()); err != nil {
		_ = ctx.Exit()
		env.closeStore()
		return nil, err
	}
	return env, nil
}

// warnUnknownKeys logs top-level keys FromConfig does not read, in sorted order.
func warnUnknownKeys(logger *slog.Logger, cfg config.Config) {
	var unknown []string
	for key := range cfg.Raw() {
		if !knownKeys[key] {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(unknown)
	for _, key := range unknown {
		logger.Warn("unknown configuration key", slog.String("key", key))
	}
}

// debugSink resolves the debug section into a callback. Resources it opens
// are recorded on env.
func (b *builder) debugSink(debug config.Config, env *Env) (ee.DebugFunc, error) {
	output := debug.String("output", OutputNone)
	switch output {
	case OutputNone, "":
		return nil, nil
	case OutputStderr:
		return debugsink.NewWriter(b.stderr, debug.String("prefix", "")).Handle, nil
	case OutputStdout:
		return debugsink.NewWriter(b.stdout, debug.String("prefix", "")).Handle, nil
	case OutputLog:
		return debugsink.NewLogger(b.logger).Handle, nil
	case OutputJSON:
		return debugsink.NewJSONWriter(b.stderr, b.reportSinkError).Handle, nil
	case OutputMemory:
		env.Recorder = debugsink.NewRecorder(debug.Int("capacity", DefaultRecorderCapacity))
		return env.Recorder.Handle, nil
	case OutputSQLite:
		path := debug.String("path", "")
		if path == "" {
			return nil, ErrPathRequired
		}
		store, err := debuglog.NewSQLiteStore(path,
			debuglog.WithBusyTimeout(debug.Duration("busy_timeout", 0)))
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		env.Store = store
		return debugsink.NewStoreSink(store, b.reportSinkError).Handle, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
}

func (b *builder) reportSinkError(err error) {
	b.logger.Warn("debug output failed", slog.String("error", err.Error()))
}

// Close exits the context, then closes the debug resources it owned.
func (e *Env) Close() error {
	var errs []error
	if e.Context != nil {
		if err := e.Context.Exit(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close debug log: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (e *Env) closeStore() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}
