package log

var _ Logger = NoopLogger{}

// NoopLogger discards every message. It is the safe default returned by
// FromContext when no logger was attached, and is handy in tests.
type NoopLogger struct{}

// NewNoopLogger creates a logger that silently drops everything.
func NewNoopLogger() Logger {
	return NoopLogger{}
}

func (NoopLogger) Debug(msg string, keysAndValues ...any) {}
func (NoopLogger) Info(msg string, keysAndValues ...any)  {}
func (NoopLogger) Warn(msg string, keysAndValues ...any)  {}
func (NoopLogger) Error(msg string, keysAndValues ...any) {}
func (NoopLogger) Fatal(msg string, keysAndValues ...any) {}

func (n NoopLogger) With(keysAndValues ...any) Logger { return n }
func (n NoopLogger) Named(name string) Logger         { return n }
func (NoopLogger) Name() string                       { return "noop" }
func (n NoopLogger) WithCallerSkip(skip int) Logger   { return n }
