// Package evslog appends structured events to a per-session JSONL log
// (<dir>/<session_id>.evs.log), the supervisor's audit trail for
// pre-reload fixes, restarts, and auto-compact decisions (spec.md §6).
package evslog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	EventPreReloadFix     = "pre_reload_fix"
	EventSupervisorStart  = "supervisor_start"
	EventSupervisorRestart = "supervisor_restart"
	EventAutoCompact      = "auto_compact"
)

// Entry is one line of a session's event log.
type Entry struct {
	ID    string          `json:"id"`
	Ts    string          `json:"ts"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Logger appends events for a single session's log file.
type Logger struct {
	path string
}

// New returns a Logger for sessionID's log file under dir.
func New(dir, sessionID string) *Logger {
	return &Logger{path: filepath.Join(dir, sessionID+".evs.log")}
}

// Path returns the underlying log file path.
func (l *Logger) Path() string {
	return l.path
}

// Append writes one event line, generating a fresh event id and using the
// current time for ts. data may be nil.
func (l *Logger) Append(event string, data any) error {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = encoded
	}

	entry := Entry{
		ID:    uuid.NewString(),
		Ts:    time.Now().UTC().Format(time.RFC3339Nano),
		Event: event,
		Data:  raw,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(line)
	return err
}

// ReadAll reads every event line from a session's log. Missing files
// return an empty slice, not an error.
func ReadAll(dir, sessionID string) ([]Entry, error) {
	path := filepath.Join(dir, sessionID+".evs.log")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
