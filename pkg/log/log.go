package log

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Logger is the structured logging interface used across the signer.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug logs a message at debug level.
	// keysAndValues are treated as alternating key-value pairs.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at info level.
	// keysAndValues are treated as alternating key-value pairs.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at warn level.
	// keysAndValues are treated as alternating key-value pairs.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at error level.
	// keysAndValues are treated as alternating key-value pairs.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at fatal level and terminates the process.
	Fatal(msg string, keysAndValues ...any)
	// With returns a logger that adds the given key-value pairs to every message.
	With(keysAndValues ...any) Logger
	// Named returns a logger with the given name appended to its name hierarchy.
	Named(name string) Logger
	// Name returns the logger's name.
	Name() string
	// WithCallerSkip returns a logger that skips extra stack frames when
	// reporting the log call site. Implementations that cannot honor the
	// request return themselves unchanged.
	WithCallerSkip(skip int) Logger
}

// Level represents the severity of a log message.
type Level string

const (
	// LevelDebug is the most verbose level, used during development.
	LevelDebug Level = "debug"
	// LevelInfo is used for routine operational messages.
	LevelInfo Level = "info"
	// LevelWarn is used for unexpected situations that are not errors.
	LevelWarn Level = "warn"
	// LevelError is used for failures that need attention.
	LevelError Level = "error"
	// LevelFatal is used for unrecoverable failures.
	LevelFatal Level = "fatal"
)

type contextKey struct{}

var loggerContextKey = contextKey{}

// SetContextLogger attaches the provided logger to the context.
// If the context carries a valid OpenTelemetry span, the logger is wrapped
// with a SpanLogger so messages are also recorded as span events.
// A nil logger is replaced with a NoopLogger.
func SetContextLogger(ctx context.Context, lg Logger) context.Context {
	if lg == nil {
		lg = NewNoopLogger()
	}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		lg = NewSpanLogger(lg, NewOtelSpanRecorder(span))
	}

	return context.WithValue(ctx, loggerContextKey, lg)
}

// FromContext retrieves the logger stored in the context.
// If no logger is present it returns a NoopLogger.
func FromContext(ctx context.Context) Logger {
	if lg, ok := ctx.Value(loggerContextKey).(Logger); ok {
		return lg
	}
	return NewNoopLogger()
}
