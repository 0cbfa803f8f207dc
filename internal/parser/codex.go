package parser

import (
	"encoding/json"

	"github.com/teunlao/eversession/internal/jsonlio"
	"github.com/teunlao/eversession/internal/model"
)

type codexWire struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

type codexPayloadTypeWire struct {
	Type string `json:"type"`
}

type codexSessionMetaWire struct {
	ID        string          `json:"id"`
	Cwd       string          `json:"cwd"`
	Timestamp string          `json:"timestamp"`
	Model     json.RawMessage `json:"model"`
}

// ParseCodex reads path as a Codex-dialect transcript: an envelope
// {timestamp, type, payload} per line. Grounded on parseCodexLine's
// envelope dispatch in the teacher's codex_source.go, generalized to keep
// every entry rather than folding them into rolling stats.
func ParseCodex(path string) Result {
	lines, err := jsonlio.ReadAll(path)
	if err != nil {
		return Result{Err: err}
	}

	session := &model.CodexSession{Path: path}
	var issues []model.Issue

	for _, line := range lines {
		if !line.Valid() {
			issues = append(issues, model.Issue{
				Severity: model.SevWarning,
				Code:     model.CodeInvalidJSONLine,
				Message:  "line is not valid JSON: " + line.Err.Error(),
				Location: model.LineLocation{Path: path, Line: line.Line},
			})
			continue
		}

		var w codexWire
		if err := json.Unmarshal(line.Value, &w); err != nil {
			issues = append(issues, model.Issue{
				Severity: model.SevWarning,
				Code:     model.CodeInvalidJSONLine,
				Message:  "line does not match the codex envelope shape: " + err.Error(),
				Location: model.LineLocation{Path: path, Line: line.Line},
			})
			continue
		}

		entry := &model.CodexEntry{
			Line:      line.Line,
			Raw:       line.Value,
			Timestamp: w.Timestamp,
			Type:      w.Type,
			Payload:   w.Payload,
		}
		if entry.Type == "response_item" && len(entry.Payload) > 0 {
			var pt codexPayloadTypeWire
			if json.Unmarshal(entry.Payload, &pt) == nil {
				entry.PayloadType = pt.Type
			}
		}
		session.Entries = append(session.Entries, entry)

		if entry.Type == "session_meta" && session.Meta == nil {
			session.Meta = parseCodexSessionMeta(entry.Payload, entry.Timestamp)
		}
	}

	if len(session.Entries) == 0 {
		return Result{Issues: issues}
	}

	return Result{Codex: session, Issues: issues}
}

func parseCodexSessionMeta(payload json.RawMessage, fallbackTimestamp string) *model.SessionMeta {
	var w codexSessionMetaWire
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil
	}
	meta := &model.SessionMeta{ID: w.ID, Cwd: w.Cwd, Timestamp: w.Timestamp}
	if meta.Timestamp == "" {
		meta.Timestamp = fallbackTimestamp
	}
	if len(w.Model) > 0 {
		var asString string
		if json.Unmarshal(w.Model, &asString) == nil {
			meta.Model = asString
		}
	}
	return meta
}
