package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is one record captured by a LogRecorder.
type LogEntry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]string
}

// LogRecorder is a slog.Handler that keeps every record in memory.
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecordingLogger returns a logger backed by a fresh LogRecorder.
func NewRecordingLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(rec), rec
}

// Enabled reports true for every level.
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle stores the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{Level: r.Level, Msg: r.Message, Attrs: map[string]string{}}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.String()
		return true
	})

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

// WithAttrs ignores attrs; recorded entries carry only per-call attributes.
func (h *LogRecorder) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup ignores groups.
func (h *LogRecorder) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of the captured records.
func (h *LogRecorder) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]LogEntry(nil), h.entries...)
}

// Find returns the first entry with the given message.
func (h *LogRecorder) Find(msg string) (LogEntry, bool) {
	for _, e := range h.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}
