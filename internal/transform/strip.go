package transform

import (
	"encoding/json"

	"github.com/teunlao/eversession/internal/model"
)

var claudeNoiseTypes = map[string]bool{
	"file-history-snapshot": true,
	"system":                true,
}

var codexNoiseTypes = map[string]bool{
	"turn_context": true,
	"event_msg":    true,
}

// StripClaude removes entries carrying no user-observable content: known
// noise types (file-history-snapshot, system) and any user/assistant
// message whose content is empty.
func StripClaude(doc *Document, s *model.ClaudeSession) ([]json.RawMessage, *model.ChangeSet) {
	cs := model.NewChangeSet()
	for _, e := range s.Entries {
		if claudeNoiseTypes[e.Type] || isEmptyClaudeContent(e) {
			cs.AddDelete(e.Line, "strip_noise")
		}
	}
	return Apply(doc, cs), cs
}

func isEmptyClaudeContent(e *model.ClaudeEntry) bool {
	if e.Type != "user" && e.Type != "assistant" {
		return false
	}
	if e.Message == nil {
		return true
	}
	if e.Message.IsString {
		return e.Message.Text == ""
	}
	return len(e.Message.Blocks) == 0
}

// StripCodex removes turn_context and event_msg envelope entries, which
// carry no conversational content a replay needs, plus response_item
// message entries whose content is empty.
func StripCodex(doc *Document, s *model.CodexSession) ([]json.RawMessage, *model.ChangeSet) {
	cs := model.NewChangeSet()
	for _, e := range s.Entries {
		if codexNoiseTypes[e.Type] || isEmptyCodexContent(e) {
			cs.AddDelete(e.Line, "strip_noise")
		}
	}
	return Apply(doc, cs), cs
}

type codexMessagePayload struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// isEmptyCodexContent reports whether e is a response_item/message entry
// whose content carries no observable text, mirroring isEmptyClaudeContent
// for the Codex dialect. Other payload types (function_call,
// function_call_output, ...) carry their own observable content and are
// left alone.
func isEmptyCodexContent(e *model.CodexEntry) bool {
	if e.Type != "response_item" || e.PayloadType != "message" {
		return false
	}
	var payload codexMessagePayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return false
	}
	if len(payload.Content) == 0 {
		return true
	}

	var asString string
	if json.Unmarshal(payload.Content, &asString) == nil {
		return asString == ""
	}

	var blocks []json.RawMessage
	if json.Unmarshal(payload.Content, &blocks) == nil {
		return len(blocks) == 0
	}
	return false
}
