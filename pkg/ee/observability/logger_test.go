package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds context_id", func(t *testing.T) {
		h := newTestHandler()
		EnrichLogger(slog.New(h), "ctx-9").Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ctx-9", record["context_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "ctx-9"))
	})
}

func TestLogContextInit(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		LogContextInit(EnrichLogger(slog.New(h), "ctx-1"), true)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "library context initialized", record["msg"])
		assert.Equal(t, "ctx-1", record["context_id"])
		assert.Equal(t, true, record["debug_sink"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogContextInit(nil, false)
		})
	})
}

func TestLogContextExit(t *testing.T) {
	t.Run("logs lifetime and message count", func(t *testing.T) {
		h := newTestHandler()
		LogContextExit(EnrichLogger(slog.New(h), "ctx-2"), 12.5, 7)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "library context exited", record["msg"])
		assert.Equal(t, "ctx-2", record["context_id"])
		assert.Equal(t, 12.5, record["lifetime_ms"])
		assert.Equal(t, float64(7), record["debug_messages"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogContextExit(nil, 0, 0)
		})
	})
}

func TestLogDebugSinkChanged(t *testing.T) {
	tests := []struct {
		name       string
		registered bool
		wantMsg    string
	}{
		{"registered", true, "debug callback registered"},
		{"cleared", false, "debug callback cleared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			LogDebugSinkChanged(EnrichLogger(slog.New(h), "ctx-3"), tt.registered)

			record := h.getLastRecord()
			require.NotNil(t, record)
			assert.Equal(t, tt.wantMsg, record["msg"])
			assert.Equal(t, "ctx-3", record["context_id"])
		})
	}
}

func TestLogInvalidHandle(t *testing.T) {
	h := newTestHandler()
	LogInvalidHandle(slog.New(h), "exit", errors.New("invalid library context"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "exit", record["operation"])
	assert.Equal(t, "invalid library context", record["error"])

	assert.NotPanics(t, func() {
		LogInvalidHandle(nil, "exit", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	elapsed := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	first := elapsed()
	assert.GreaterOrEqual(t, first, 5*time.Millisecond)
	assert.GreaterOrEqual(t, elapsed(), first)
}
