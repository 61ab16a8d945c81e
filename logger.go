package vaultarray

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vaultarray-specific context. This
// provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler
// is nil, uses the default text handler to stderr.
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
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output. Used as
// the default so the library is silent unless configured.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	}))}
}

// sessionGroup builds the slog.Group shared by every session-lifecycle
// log line: array URI, operation name, and open mode.
func sessionGroup(uri, op string, mode Mode) slog.Attr {
	return slog.Group("session",
		slog.String("array", uri),
		slog.String("op", op),
		slog.String("mode", mode.String()),
	)
}

// LogOpen logs an open/open_at/open_with_key/reopen call.
func (l *Logger) LogOpen(ctx context.Context, uri, op string, mode Mode, timestampMillis int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			sessionGroup(uri, op, mode),
			slog.Int64("timestamp_ms", timestampMillis),
			slog.String("error", err.Error()),
		)
		return
	}
	l.DebugContext(ctx, "open completed",
		sessionGroup(uri, op, mode),
		slog.Int64("timestamp_ms", timestampMillis),
	)
}

// LogClose logs a session close, naming the fragment written (if any).
func (l *Logger) LogClose(ctx context.Context, uri string, mode Mode, fragmentName string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			sessionGroup(uri, "close", mode),
			slog.String("fragment", fragmentName),
			slog.String("error", err.Error()),
		)
		return
	}
	l.InfoContext(ctx, "close completed",
		sessionGroup(uri, "close", mode),
		slog.String("fragment", fragmentName),
	)
}

// LogConsolidate logs a consolidation pass: the number of fragments
// folded and the name of the replacement fragment written.
func (l *Logger) LogConsolidate(ctx context.Context, uri string, foldedFragments int, fragmentName string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "consolidate failed",
			sessionGroup(uri, "consolidate_metadata", ModeRead),
			slog.Int("folded_fragments", foldedFragments),
			slog.String("error", err.Error()),
		)
		return
	}
	l.InfoContext(ctx, "consolidate completed",
		sessionGroup(uri, "consolidate_metadata", ModeRead),
		slog.Int("folded_fragments", foldedFragments),
		slog.String("fragment", fragmentName),
	)
}

// LogAuthFailure warns about a GCM authentication failure before it is
// returned to the caller as ErrAuthenticationFailedSentinel.
func (l *Logger) LogAuthFailure(ctx context.Context, uri, fragmentName string) {
	l.WarnContext(ctx, "fragment authentication failed",
		slog.String("array", uri),
		slog.String("fragment", fragmentName),
	)
}

// LogCorruptFragment warns about a codec invariant violation before it
// is returned to the caller as ErrCorruptFragmentSentinel.
func (l *Logger) LogCorruptFragment(ctx context.Context, uri, fragmentName string, err error) {
	l.WarnContext(ctx, "fragment corrupt",
		slog.String("array", uri),
		slog.String("fragment", fragmentName),
		slog.String("error", err.Error()),
	)
}
