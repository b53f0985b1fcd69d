package bpcells

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bpcells-specific context, giving every
// package in this module a consistent set of field names without pulling
// in a third-party logging library the teacher itself doesn't need here.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a default text handler to stderr.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output. This is the
// default for every constructor in this module; nothing logs unless a
// caller opts in via WithLogger.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)})
	return &Logger{Logger: slog.New(handler)}
}

// WithChr adds a chromosome-id field to the logger.
func (l *Logger) WithChr(chr uint32) *Logger {
	return &Logger{Logger: l.Logger.With("chr", chr)}
}

// WithGroup adds a store-group-name field to the logger.
func (l *Logger) WithGroup(name string) *Logger {
	return &Logger{Logger: l.Logger.With("group", name)}
}

// LogStoreOpen logs the opening of a ByteStore group for read or write.
func (l *Logger) LogStoreOpen(ctx context.Context, group string, forWrite bool, err error) {
	mode := "read"
	if forWrite {
		mode = "write"
	}
	if err != nil {
		l.ErrorContext(ctx, "store open failed", "group", group, "mode", mode, "error", err)
		return
	}
	l.DebugContext(ctx, "store opened", "group", group, "mode", mode)
}

// LogChromosome logs completion of streaming a single chromosome.
func (l *Logger) LogChromosome(ctx context.Context, chr uint32, fragments int) {
	l.DebugContext(ctx, "chromosome streamed", "chr", chr, "fragments", fragments)
}

// LogWriteComplete logs completion of a FragmentStore or MatrixStore write.
func (l *Logger) LogWriteComplete(ctx context.Context, group string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed", "group", group, "error", err)
		return
	}
	l.InfoContext(ctx, "write completed", "group", group, "records", records)
}
