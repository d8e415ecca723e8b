package fixtures

import (
	"context"
	"sync"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// RecordingRegistry captures command handlers passed to RegisterCommand.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		Handlers: make([]any, 0),
	}
}

// RegisterCommand records the handler, or fails with Err when set.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// LogEntry is one message captured by RecordingLogger.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// RecordingLogger captures log entries, including the fields accumulated
// through WithFields.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	fields  map[string]any
}

var _ interfaces.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger constructs an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{
		mu:      &sync.Mutex{},
		entries: &[]LogEntry{},
		fields:  map[string]any{},
	}
}

// Entries returns a snapshot of captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), (*l.entries)...)
}

// Find returns the first entry with message msg.
func (l *RecordingLogger) Find(msg string) (LogEntry, bool) {
	for _, entry := range l.Entries() {
		if entry.Message == msg {
			return entry, true
		}
	}
	return LogEntry{}, false
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	*l.entries = append(*l.entries, LogEntry{Level: level, Message: msg, Args: args, Fields: fields})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

// WithFields returns a child logger sharing the entry buffer.
func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}
