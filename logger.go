package fmgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with fmgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithN adds the indexed sequence length to the logger.
func (l *Logger) WithN(n uint64) *Logger {
	return &Logger{Logger: l.Logger.With("n", n)}
}

// LogBuild logs an index construction.
func (l *Logger) LogBuild(ctx context.Context, n int, workers int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"n", n,
			"workers", workers,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"n", n,
			"workers", workers,
			"duration", d,
		)
	}
}

// LogRange logs a backward search.
func (l *Logger) LogRange(ctx context.Context, queryLen, matchedLen int, count uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range query failed",
			"query_len", queryLen,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range query completed",
			"query_len", queryLen,
			"matched_len", matchedLen,
			"count", count,
		)
	}
}

// LogSave logs an index save.
func (l *Logger) LogSave(ctx context.Context, name string, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index saved",
			"name", name,
			"duration", d,
		)
	}
}

// LogLoad logs an index load.
func (l *Logger) LogLoad(ctx context.Context, name string, n uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index loaded",
			"name", name,
			"n", n,
		)
	}
}
