package corrmin

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// Logger wraps slog.Logger with corrmin-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBound adds a bound field to the logger.
func (l *Logger) WithBound(bound int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bound", bound),
	}
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", runID),
	}
}

// LogGenerate logs a catalog generation.
func (l *Logger) LogGenerate(ctx context.Context, bound int, matrices int64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "catalog generation failed",
			"bound", bound,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "catalog ready",
			"bound", bound,
			"matrices", humanize.Comma(matrices),
			"duration", duration,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, k int, pairs int64, best float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search completed",
			"k", k,
			"pairs", humanize.Comma(pairs),
			"best", best,
			"duration", duration,
		)
	}
}

// LogSegmentCache logs the segment cache counters after a search.
func (l *Logger) LogSegmentCache(ctx context.Context, hits, misses, bytes int64) {
	l.DebugContext(ctx, "segment cache",
		"hits", hits,
		"misses", misses,
		"size", humanize.IBytes(uint64(bytes)),
	)
}

// LogArchive logs an archived search record.
func (l *Logger) LogArchive(ctx context.Context, id uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "record archived",
			"id", id,
		)
	}
}
