// Package debugsink provides ready-made debug callbacks for library contexts.
//
// Every sink exposes a Handle method with the ee.DebugFunc signature, so its
// method value can be registered directly:
//
//	rec := debugsink.NewRecorder(100)
//	if err := ctx.SetDebugCallback(rec.Handle, "parser"); err != nil {
//	    return err
//	}
//
// Sinks are safe to share between contexts used from different goroutines.
//
// Handler goes the other way: it is a slog.Handler that renders records into
// a context's debug callback, so library code can log through slog.
package debugsink
