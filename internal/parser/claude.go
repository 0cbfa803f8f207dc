package parser

import (
	"encoding/json"

	"github.com/teunlao/eversession/internal/jsonlio"
	"github.com/teunlao/eversession/internal/model"
)

type claudeWire struct {
	Type        string          `json:"type"`
	UUID        string          `json:"uuid"`
	ParentUUID  *string         `json:"parentUuid"`
	SessionID   string          `json:"sessionId"`
	Timestamp   string          `json:"timestamp"`
	RequestID   string          `json:"requestId"`
	IsSidechain bool            `json:"isSidechain"`
	Message     json.RawMessage `json:"message"`
}

type claudeMessageWire struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type claudeBlockWire struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	ID        string          `json:"id"`
	ToolUseID string          `json:"tool_use_id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	Content   json.RawMessage `json:"content"`
}

// ParseClaude reads path as a Claude-dialect transcript and builds its full
// session graph: entries, by_uuid, children, and the default leaf chain.
func ParseClaude(path string) Result {
	lines, err := jsonlio.ReadAll(path)
	if err != nil {
		return Result{Err: err}
	}

	session := &model.ClaudeSession{
		Path:     path,
		ByUUID:   make(map[string]*model.ClaudeEntry),
		Children: make(map[string][]string),
	}

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

		var w claudeWire
		if err := json.Unmarshal(line.Value, &w); err != nil {
			issues = append(issues, model.Issue{
				Severity: model.SevWarning,
				Code:     model.CodeInvalidJSONLine,
				Message:  "line does not match the claude entry shape: " + err.Error(),
				Location: model.LineLocation{Path: path, Line: line.Line},
			})
			continue
		}

		entry := &model.ClaudeEntry{
			Line:        line.Line,
			Raw:         line.Value,
			Type:        w.Type,
			UUID:        w.UUID,
			ParentUUID:  w.ParentUUID,
			SessionID:   w.SessionID,
			Timestamp:   w.Timestamp,
			RequestID:   w.RequestID,
			IsSidechain: w.IsSidechain,
			Message:     parseClaudeMessage(w.Message),
		}
		session.Entries = append(session.Entries, entry)

		if entry.UUID != "" {
			session.ByUUID[entry.UUID] = entry
		}
	}

	if len(session.Entries) == 0 {
		return Result{Issues: issues}
	}

	for _, entry := range session.Entries {
		if entry.ParentUUID != nil && *entry.ParentUUID != "" {
			session.Children[*entry.ParentUUID] = append(session.Children[*entry.ParentUUID], entry.UUID)
		}
	}

	session.LeafChain = buildLeafChain(session)

	return Result{Claude: session, Issues: issues}
}

func parseClaudeMessage(raw json.RawMessage) *model.ClaudeMessage {
	if len(raw) == 0 {
		return nil
	}
	var w claudeMessageWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil
	}

	msg := &model.ClaudeMessage{Role: w.Role, Raw: raw}

	var asString string
	if json.Unmarshal(w.Content, &asString) == nil {
		msg.IsString = true
		msg.Text = asString
		return msg
	}

	var blockWires []claudeBlockWire
	if err := json.Unmarshal(w.Content, &blockWires); err != nil {
		return msg
	}

	rawBlocks := rawBlockArray(w.Content)
	for i, bw := range blockWires {
		block := model.ClaudeBlock{Type: model.ClaudeBlockType(bw.Type)}
		if i < len(rawBlocks) {
			block.Raw = rawBlocks[i]
		}
		switch block.Type {
		case model.BlockText:
			block.Text = bw.Text
		case model.BlockThinking:
			block.Text = bw.Thinking
		case model.BlockToolUse:
			block.ToolUseID = bw.ID
			block.ToolName = bw.Name
			block.Input = bw.Input
		case model.BlockToolResult:
			block.ToolUseID = bw.ToolUseID
			block.Result = bw.Content
		}
		msg.Blocks = append(msg.Blocks, block)
	}
	return msg
}

func rawBlockArray(content json.RawMessage) []json.RawMessage {
	var raws []json.RawMessage
	if err := json.Unmarshal(content, &raws); err != nil {
		return nil
	}
	return raws
}

// buildLeafChain starts at the last entry that owns a non-sidechain uuid
// and walks parentUuid backwards until nil or a missing parent, then
// reverses the walk so the chain reads root-first, leaf-last.
func buildLeafChain(s *model.ClaudeSession) []string {
	var start *model.ClaudeEntry
	for i := len(s.Entries) - 1; i >= 0; i-- {
		e := s.Entries[i]
		if e.UUID != "" && !e.IsSidechain {
			start = e
			break
		}
	}
	if start == nil {
		return nil
	}

	var reverse []string
	seen := make(map[string]bool)
	cur := start
	for cur != nil {
		if seen[cur.UUID] {
			break // defensive: a cycle would otherwise loop forever
		}
		seen[cur.UUID] = true
		reverse = append(reverse, cur.UUID)

		if cur.ParentUUID == nil || *cur.ParentUUID == "" {
			break
		}
		parent, ok := s.ByUUID[*cur.ParentUUID]
		if !ok {
			break // broken parent terminates the chain
		}
		cur = parent
	}

	chain := make([]string, len(reverse))
	for i, id := range reverse {
		chain[len(reverse)-1-i] = id
	}
	return chain
}
