// Package projection implements the read-only Export/Diff/Analyze views
// over a parsed session (SPEC_FULL.md §4.9): they never produce a
// ChangeSet and never write to the transcript file itself.
package projection

import (
	"encoding/json"

	"github.com/teunlao/eversession/internal/model"
)

// exportedClaudeEntry is the plain-JSON shape Export renders a Claude
// entry as — typed fields, not the raw wire object, since downstream
// tooling (spec.md names "human-readable formatters" as an out-of-scope
// collaborator) wants structure, not the original JSONL bytes.
type exportedClaudeEntry struct {
	Line        int     `json:"line"`
	Type        string  `json:"type"`
	UUID        string  `json:"uuid"`
	ParentUUID  *string `json:"parentUuid"`
	IsSidechain bool    `json:"isSidechain"`
	Role        string  `json:"role,omitempty"`
	Text        string  `json:"text,omitempty"`
	BlockTypes  []string `json:"blockTypes,omitempty"`
}

type exportedCodexEntry struct {
	Line        int    `json:"line"`
	Type        string `json:"type"`
	PayloadType string `json:"payloadType,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// ExportClaude renders s as a plain JSON array of typed entries.
func ExportClaude(s *model.ClaudeSession) ([]byte, error) {
	out := make([]exportedClaudeEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		ee := exportedClaudeEntry{
			Line:        e.Line,
			Type:        e.Type,
			UUID:        e.UUID,
			ParentUUID:  e.ParentUUID,
			IsSidechain: e.IsSidechain,
		}
		if e.Message != nil {
			ee.Role = e.Message.Role
			if e.Message.IsString {
				ee.Text = e.Message.Text
			}
			for _, b := range e.Message.Blocks {
				ee.BlockTypes = append(ee.BlockTypes, string(b.Type))
			}
		}
		out = append(out, ee)
	}
	return json.Marshal(out)
}

// ExportCodex renders s as a plain JSON array of typed entries.
func ExportCodex(s *model.CodexSession) ([]byte, error) {
	out := make([]exportedCodexEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, exportedCodexEntry{
			Line:        e.Line,
			Type:        e.Type,
			PayloadType: e.PayloadType,
			Timestamp:   e.Timestamp,
		})
	}
	return json.Marshal(out)
}
