package model

import "encoding/json"

// ClaudeBlockType enumerates the recognized content block kinds inside a
// Claude message.
type ClaudeBlockType string

const (
	BlockText       ClaudeBlockType = "text"
	BlockThinking   ClaudeBlockType = "thinking"
	BlockToolUse    ClaudeBlockType = "tool_use"
	BlockToolResult ClaudeBlockType = "tool_result"
)

// ClaudeBlock is one element of an assistant/user message's content array.
// Raw preserves the exact original JSON for the block so that fields this
// model doesn't know about survive an UpdateLine round-trip untouched.
type ClaudeBlock struct {
	Type      ClaudeBlockType
	Text      string          // text | thinking
	ToolUseID string          // tool_use.id | tool_result.tool_use_id
	ToolName  string          // tool_use.name
	Input     json.RawMessage // tool_use.input
	Result    json.RawMessage // tool_result.content
	Raw       json.RawMessage
}

// ClaudeMessage is the "message" object on a user/assistant entry. Content
// is either a bare string or an ordered list of blocks; IsString
// distinguishes the two so the original shape can be reproduced exactly.
type ClaudeMessage struct {
	Role     string
	IsString bool
	Text     string
	Blocks   []ClaudeBlock
	Raw      json.RawMessage
}

// ClaudeEntry is one line of a Claude-dialect transcript.
type ClaudeEntry struct {
	Line        int
	Raw         json.RawMessage // the full original object, verbatim
	Type        string          // user | assistant | summary | system | file-history-snapshot | ...
	UUID        string
	ParentUUID  *string // nil means root; non-nil empty string is distinct from nil
	SessionID   string
	Timestamp   string
	RequestID   string
	IsSidechain bool
	Message     *ClaudeMessage
}

// ClaudeSession is the parsed graph of a single Claude transcript file.
type ClaudeSession struct {
	Path      string
	Entries   []*ClaudeEntry
	ByUUID    map[string]*ClaudeEntry
	Children  map[string][]string // uuid -> ordered child uuids
	LeafChain []string            // uuid list, root (oldest) first, leaf (newest) last
}

// EntryByLine returns the entry at the given 1-based line number, if any.
func (s *ClaudeSession) EntryByLine(line int) (*ClaudeEntry, bool) {
	for _, e := range s.Entries {
		if e.Line == line {
			return e, true
		}
	}
	return nil, false
}

// LeafChainEntries resolves LeafChain (a uuid list) into entries, skipping
// any uuid that somehow isn't present (defensive; should not happen for a
// well-formed chain).
func (s *ClaudeSession) LeafChainEntries() []*ClaudeEntry {
	out := make([]*ClaudeEntry, 0, len(s.LeafChain))
	for _, id := range s.LeafChain {
		if e, ok := s.ByUUID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
