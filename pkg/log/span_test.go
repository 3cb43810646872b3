package log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuxingjun/taoli-tools-signer/pkg/log"
)

// TestSpanLogger verifies the SpanLogger decorator:
// 1. Messages reach both the wrapped logger and the span recorder
// 2. Trace and span IDs are injected into every log entry
// 3. Error and Fatal are recorded as span errors
// 4. Span events carry the level and component name
// 5. The wrapper adjusts the caller skip of the wrapped logger
func TestSpanLogger(t *testing.T) {
	mock := newMockLogger()
	rec := newMockSpanRecorder("trace-id-123", "span-id-456")
	logger := log.NewSpanLogger(mock, rec)

	// The wrapper adds one frame, so it must skip it.
	assert.Equal(t, 1, mock.state.callerSkip)

	logger = logger.Named("testComponent")
	keysAndValues := []any{"key1", "value1"}

	logger.Info("informational", keysAndValues...)

	entry := mock.state.lastEntry
	require.NotNil(t, entry)
	assert.Equal(t, log.LevelInfo, entry.level)
	assert.Equal(t, "informational", entry.msg)
	assert.Equal(t, []any{"traceId", "trace-id-123", "spanId", "span-id-456", "key1", "value1"}, entry.keysAndValues)

	assert.Equal(t, "informational", rec.lastEventName)
	assert.Equal(t, []any{"level", "info", "component", "testComponent", "key1", "value1"}, rec.lastEventKV)
	assert.Zero(t, rec.errorCount)

	logger.Error("failed", keysAndValues...)
	assert.Equal(t, 1, rec.errorCount)
	assert.Equal(t, []any{"level", "error", "component", "testComponent", "key1", "value1"}, rec.lastEventKV)

	// With passes persistent pairs through to the wrapped logger.
	logger.With("extra", "pair").Warn("warned")
	assert.Equal(t, []any{"extra", "pair"}, mock.state.withKV)

	// Name reflects the wrapped logger.
	assert.Equal(t, "testComponent", logger.Name())
}

// mockLogger records calls so tests can assert how SpanLogger drives
// the wrapped logger. Derived loggers share state with their parent.
type mockLogger struct {
	state *mockLoggerState
	name  string
}

type mockLoggerState struct {
	lastEntry  *mockEntry
	withKV     []any
	callerSkip int
}

type mockEntry struct {
	level         log.Level
	msg           string
	keysAndValues []any
}

func newMockLogger() *mockLogger {
	return &mockLogger{state: &mockLoggerState{}}
}

func (m *mockLogger) record(level log.Level, msg string, keysAndValues []any) {
	m.state.lastEntry = &mockEntry{level: level, msg: msg, keysAndValues: keysAndValues}
}

func (m *mockLogger) Debug(msg string, keysAndValues ...any) {
	m.record(log.LevelDebug, msg, keysAndValues)
}

func (m *mockLogger) Info(msg string, keysAndValues ...any) {
	m.record(log.LevelInfo, msg, keysAndValues)
}

func (m *mockLogger) Warn(msg string, keysAndValues ...any) {
	m.record(log.LevelWarn, msg, keysAndValues)
}

func (m *mockLogger) Error(msg string, keysAndValues ...any) {
	m.record(log.LevelError, msg, keysAndValues)
}

func (m *mockLogger) Fatal(msg string, keysAndValues ...any) {
	m.record(log.LevelFatal, msg, keysAndValues)
}

func (m *mockLogger) With(keysAndValues ...any) log.Logger {
	m.state.withKV = append(m.state.withKV, keysAndValues...)
	return m
}

func (m *mockLogger) Named(name string) log.Logger {
	return &mockLogger{state: m.state, name: name}
}

func (m *mockLogger) Name() string { return m.name }

func (m *mockLogger) WithCallerSkip(skip int) log.Logger {
	m.state.callerSkip += skip
	return m
}

// mockSpanRecorder captures events recorded by SpanLogger.
type mockSpanRecorder struct {
	traceID       string
	spanID        string
	lastEventName string
	lastEventKV   []any
	errorCount    int
}

func newMockSpanRecorder(traceID, spanID string) *mockSpanRecorder {
	return &mockSpanRecorder{traceID: traceID, spanID: spanID}
}

func (r *mockSpanRecorder) TraceID() string { return r.traceID }
func (r *mockSpanRecorder) SpanID() string  { return r.spanID }

func (r *mockSpanRecorder) RecordEvent(name string, keysAndValues ...any) {
	r.lastEventName = name
	r.lastEventKV = keysAndValues
}

func (r *mockSpanRecorder) RecordError(name string, keysAndValues ...any) {
	r.RecordEvent(name, keysAndValues...)
	r.errorCount++
}
