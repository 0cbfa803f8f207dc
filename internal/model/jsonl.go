// Package model defines the typed session graph EverSession parses
// transcripts into, and the edit primitives (Change, ChangeSet, Issue) the
// rest of the engine operates on.
package model

import "encoding/json"

// JsonlLine is one line from a transcript file: either a successfully
// parsed JSON value, or an InvalidJson marker carrying the parse error.
// Blank lines never produce a JsonlLine — the reader skips them entirely.
type JsonlLine struct {
	Line  int             // 1-based, monotonic
	Raw   string          // the original line text, without the trailing newline
	Value json.RawMessage // nil when Err != nil
	Err   error           // non-nil means this line failed to parse as JSON
}

// Valid reports whether this line parsed successfully.
func (l JsonlLine) Valid() bool { return l.Err == nil }
