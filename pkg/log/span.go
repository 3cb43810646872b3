package log

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ Logger       = SpanLogger{}
	_ SpanRecorder = (*OtelSpanRecorder)(nil)
)

// SpanRecorder records log events and errors onto a trace span.
type SpanRecorder interface {
	// TraceID returns the trace ID of the underlying span.
	TraceID() string
	// SpanID returns the span ID of the underlying span.
	SpanID() string
	// RecordEvent records an event with alternating key-value pairs.
	RecordEvent(name string, keysAndValues ...any)
	// RecordError records an error event and marks the span as failed.
	RecordError(name string, keysAndValues ...any)
}

// SpanLogger decorates a Logger so that every message is also recorded
// on a trace span, and every log line carries the trace and span IDs.
type SpanLogger struct {
	lg  Logger
	rec SpanRecorder
}

// NewSpanLogger wraps lg so messages are mirrored to the given recorder.
func NewSpanLogger(lg Logger, rec SpanRecorder) Logger {
	return SpanLogger{
		lg:  lg.WithCallerSkip(1), // skip the SpanLogger frame itself
		rec: rec,
	}
}

func (sl SpanLogger) Debug(msg string, keysAndValues ...any) {
	sl.rec.RecordEvent(msg, sl.eventKV(LevelDebug, keysAndValues)...)
	sl.lg.Debug(msg, sl.traceKV(keysAndValues)...)
}

func (sl SpanLogger) Info(msg string, keysAndValues ...any) {
	sl.rec.RecordEvent(msg, sl.eventKV(LevelInfo, keysAndValues)...)
	sl.lg.Info(msg, sl.traceKV(keysAndValues)...)
}

func (sl SpanLogger) Warn(msg string, keysAndValues ...any) {
	sl.rec.RecordEvent(msg, sl.eventKV(LevelWarn, keysAndValues)...)
	sl.lg.Warn(msg, sl.traceKV(keysAndValues)...)
}

func (sl SpanLogger) Error(msg string, keysAndValues ...any) {
	sl.rec.RecordError(msg, sl.eventKV(LevelError, keysAndValues)...)
	sl.lg.Error(msg, sl.traceKV(keysAndValues)...)
}

func (sl SpanLogger) Fatal(msg string, keysAndValues ...any) {
	sl.rec.RecordError(msg, sl.eventKV(LevelFatal, keysAndValues)...)
	sl.lg.Fatal(msg, sl.traceKV(keysAndValues)...)
}

func (sl SpanLogger) With(keysAndValues ...any) Logger {
	return SpanLogger{lg: sl.lg.With(keysAndValues...), rec: sl.rec}
}

func (sl SpanLogger) Named(name string) Logger {
	return SpanLogger{lg: sl.lg.Named(name), rec: sl.rec}
}

func (sl SpanLogger) Name() string { return sl.lg.Name() }

func (sl SpanLogger) WithCallerSkip(skip int) Logger {
	return SpanLogger{lg: sl.lg.WithCallerSkip(skip), rec: sl.rec}
}

// traceKV prepends the trace and span IDs so log lines can be joined
// with the trace backend.
func (sl SpanLogger) traceKV(keysAndValues []any) []any {
	return append([]any{
		"traceId", sl.rec.TraceID(),
		"spanId", sl.rec.SpanID(),
	}, keysAndValues...)
}

// eventKV prepends the level and component name to span event attributes.
func (sl SpanLogger) eventKV(level Level, keysAndValues []any) []any {
	return append([]any{
		"level", string(level),
		"component", sl.lg.Name(),
	}, keysAndValues...)
}

// OtelSpanRecorder is a SpanRecorder backed by an OpenTelemetry span.
type OtelSpanRecorder struct {
	span trace.Span
}

// NewOtelSpanRecorder creates a recorder writing onto the given span.
func NewOtelSpanRecorder(span trace.Span) *OtelSpanRecorder {
	return &OtelSpanRecorder{span: span}
}

// TraceID returns the span's trace ID as a hex string.
func (r *OtelSpanRecorder) TraceID() string {
	return r.span.SpanContext().TraceID().String()
}

// SpanID returns the span's ID as a hex string.
func (r *OtelSpanRecorder) SpanID() string {
	return r.span.SpanContext().SpanID().String()
}

// RecordEvent records an event with the given attributes on the span.
func (r *OtelSpanRecorder) RecordEvent(name string, keysAndValues ...any) {
	r.span.AddEvent(name, trace.WithAttributes(kvToAttributes(keysAndValues)...))
}

// RecordError records an error event and sets the span status to error.
func (r *OtelSpanRecorder) RecordError(name string, keysAndValues ...any) {
	r.span.AddEvent(name, trace.WithAttributes(kvToAttributes(keysAndValues)...))
	r.span.SetStatus(codes.Error, name)
}

func kvToAttributes(keysAndValues []any) []attribute.KeyValue {
	if len(keysAndValues)%2 != 0 {
		keysAndValues = append(keysAndValues, "MISSING")
	}

	attrs := make([]attribute.KeyValue, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			attrs = append(attrs, attribute.String("invalidKeysAndValues", fmt.Sprint(keysAndValues[i:])))
			break
		}

		switch v := keysAndValues[i+1].(type) {
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case fmt.Stringer:
			attrs = append(attrs, attribute.String(key, v.String()))
		default:
			attrs = append(attrs, attribute.String(key, fmt.Sprint(v)))
		}
	}

	return attrs
}
