// Package log provides structured, context-aware logging with optional
// distributed tracing support.
//
// The package is built around explicit dependency injection and context
// propagation rather than global state.
//
// # Core Types
//
// Everything centers on the Logger interface:
//
//	type Logger interface {
//	    Debug(msg string, keysAndValues ...any)
//	    Info(msg string, keysAndValues ...any)
//	    Warn(msg string, keysAndValues ...any)
//	    Error(msg string, keysAndValues ...any)
//	    Fatal(msg string, keysAndValues ...any)
//	    With(keysAndValues ...any) Logger
//	    Named(name string) Logger
//	    Name() string
//	    WithCallerSkip(skip int) Logger
//	}
//
// Three implementations are provided:
//
//   - ZapLogger: a production logger built on Uber's zap
//   - NoopLogger: discards all messages, useful in tests
//   - SpanLogger: a decorator mirroring log events onto a trace span
//
// # Basic Usage
//
//	conf := log.Config{
//	    Format: "logfmt",
//	    Level:  log.LevelInfo,
//	    Output: "stderr",
//	}
//	logger := log.NewZapLogger(conf)
//	logger.Info("service started", "version", "1.0.0")
//
// # Context Integration
//
//	ctx = log.SetContextLogger(ctx, logger)
//	log.FromContext(ctx).Info("handling request")
//
// When SetContextLogger is called with a context holding a valid
// OpenTelemetry span, the stored logger is wrapped in a SpanLogger so
// every message is also recorded as a span event; Error and Fatal mark
// the span as failed.
//
// # Logger Enrichment
//
// Derived loggers carry extra identity without mutating the parent:
//
//	authLogger := logger.Named("auth")
//	keyLogger := authLogger.With("keyId", keyID)
//
// Helper functions that wrap logging calls should use WithCallerSkip(1)
// so the reported source line points at the real caller.
//
// # Environment Configuration
//
// Config fields map onto environment variables:
//
//   - LOG_FORMAT: console, logfmt or json
//   - LOG_LEVEL: debug, info, warn, error or fatal
//   - LOG_OUTPUT: stderr, stdout or a file path
package log
