/*
Package ee provides the library context for libee, a CEE-based event
expression library.

# Overview

A Context is the environment in which all other libee objects operate.
Every library call takes one as its first argument. Several independent
contexts may live in one process, which suits plugin-based programs: each
plugin owns its own context and nothing is shared between them.

# Basic Usage

	ctx, err := ee.Init()
	if err != nil {
	    log.Fatal(err)
	}
	defer ctx.Exit()

	fmt.Println("libee", ee.Version())

Exit must be called on a context that is no longer needed. The context must
not be used afterwards; operations on an exited context fail with
ErrInvalidContext where they can report an error and do nothing otherwise.

# Debug Output

libee can describe its internal processing and the way a log message is
being normalized. A caller obtains this information by registering a debug
callback:

	err := ctx.SetDebugCallback(func(cookie any, msg string, length int) {
	    fmt.Fprintf(os.Stderr, "[%v] %s\n", cookie, msg)
	}, "parser-1")

The callback receives the cookie given at registration, the message, and the
message length in bytes. Registering again replaces the previous callback;
passing nil disables debug output. Debug output can be rather verbose.

The callback runs synchronously on the goroutine that emitted the message and
must not call Init, Exit or SetDebugCallback.

Library code emits through Debugf and DebugMsg; both are no-ops when no
callback is registered. DebugEnabled lets callers skip building messages
nobody will read.

Ready-made callbacks (writer, JSON lines, slog, bounded recorder, SQLite
log) live in the debugsink package.

# Observability

Lifecycle events are logged through slog with a context_id field:

	ctx, err := ee.Init(
	    ee.WithLogger(logger),
	    ee.WithMetrics(true),
	    ee.WithTracing(true),
	)

OpenTelemetry metrics: ee.context.inits, ee.context.exits, ee.context.live,
ee.context.lifetime_ms, ee.debug.messages, ee.debug.bytes.
OpenTelemetry tracing: one ee.context span per context lifetime with an
ee.debug event per delivered message.

# Version

Version reports the version of the library actually linked. It is set at
build time with -ldflags "-X github.com/randalmurphal/libee/pkg/ee.version=...".

# Thread Safety

  - A single Context is NOT safe for concurrent use
  - Distinct Contexts may be used concurrently from different goroutines
  - Version is safe for concurrent use

# Subpackages

  - config: YAML/JSON configuration accessors
  - setup: build a Context from a configuration document
  - debugsink: ready-made debug callbacks
  - debuglog: debug message storage (memory, SQLite)
  - observability: logging, metrics, and tracing helpers
*/
package ee
