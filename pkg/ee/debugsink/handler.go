package debugsink

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/randalmurphal/libee/pkg/ee"
)

// Handler is a slog.Handler that renders records in logfmt (without the
// time field) and emits them through a library context's debug callback.
//
// Records are dropped when the context has no debug callback. Like the
// context itself, a Handler must not be used from several goroutines at once.
type Handler struct {
	ctx   *ee.Context
	level slog.Leveler
	text  slog.Handler
	out   *renderBuffer
}

// renderBuffer is shared by a Handler and the handlers derived from it.
type renderBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewHandler returns a Handler emitting into ctx. A nil level means
// slog.LevelDebug.
//
// Example:
//
//	logger := slog.New(debugsink.NewHandler(ctx, nil))
//	logger.Debug("rule matched", "rule", "sshd-login")
//	// debug callback receives: level=DEBUG msg="rule matched" rule=sshd-login
func NewHandler(ctx *ee.Context, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	out := &renderBuffer{}
	text := slog.NewTextHandler(&out.buf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return &Handler{ctx: ctx, level: level, text: text, out: out}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.ctx.DebugEnabled() && level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if !h.ctx.DebugEnabled() {
		return nil
	}

	h.out.mu.Lock()
	h.out.buf.Reset()
	err := h.text.Handle(ctx, r)
	line := strings.TrimSuffix(h.out.buf.String(), "\n")
	h.out.mu.Unlock()

	if err != nil {
		return err
	}
	h.ctx.DebugMsg(line)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{ctx: h.ctx, level: h.level, text: h.text.WithAttrs(attrs), out: h.out}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{ctx: h.ctx, level: h.level, text: h.text.WithGroup(name), out: h.out}
}
