package debugsink

import (
	"context"
	"log/slog"
)

// Logger forwards debug messages to a slog.Logger.
type Logger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogger returns a Logger that logs at slog.LevelDebug.
// A nil logger uses slog.Default().
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy that logs at level.
func (s *Logger) WithLevel(level slog.Level) *Logger {
	return &Logger{logger: s.logger, level: level}
}

// Handle logs msg with cookie and length attributes.
func (s *Logger) Handle(cookie any, msg string, length int) {
	s.logger.LogAttrs(context.Background(), s.level, msg,
		slog.Any("cookie", cookie),
		slog.Int("length", length),
	)
}
