package model

import "encoding/json"

// CodexEntry is one line of a Codex-dialect transcript: an outer envelope
// of {timestamp, type, payload}. PayloadType is only meaningful when
// Type == "response_item" (it mirrors payload.type); it is left empty for
// envelope kinds that don't nest a typed payload.
type CodexEntry struct {
	Line        int
	Raw         json.RawMessage // the full original object, verbatim
	Timestamp   string
	Type        string // session_meta | response_item | turn_context | event_msg | ...
	PayloadType string // response_item.payload.type: message | reasoning | function_call | function_call_output | ...
	Payload     json.RawMessage
}

// SessionMeta is extracted from the first session_meta record in a Codex
// transcript.
type SessionMeta struct {
	ID        string
	Cwd       string
	Timestamp string
	Model     string
}

// CodexSession is the parsed graph of a single Codex transcript file.
type CodexSession struct {
	Path    string
	Entries []*CodexEntry
	Meta    *SessionMeta // nil if no session_meta record was found
}

// EntryByLine returns the entry at the given 1-based line number, if any.
func (s *CodexSession) EntryByLine(line int) (*CodexEntry, bool) {
	for _, e := range s.Entries {
		if e.Line == line {
			return e, true
		}
	}
	return nil, false
}

// ResponseItems returns entries whose Type is response_item, in file order.
func (s *CodexSession) ResponseItems() []*CodexEntry {
	var out []*CodexEntry
	for _, e := range s.Entries {
		if e.Type == "response_item" {
			out = append(out, e)
		}
	}
	return out
}
