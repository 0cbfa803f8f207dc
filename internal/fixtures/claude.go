// Package fixtures builds synthetic Claude/Codex transcript JSONL content
// for tests, with named-defect options that reproduce the malformed
// shapes the validator/transform packages target. Grounded on the
// teacher's internal/mock/generator.go scripted-session-timeline pattern
// — a small ordered list of step definitions assembled into a session —
// generalized here from driving a live demo UI to emitting deterministic
// JSONL fixtures.
package fixtures

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClaudeBlock is one content block in a builder-authored message.
type ClaudeBlock struct {
	Type      string
	Text      string
	ID        string // tool_use.id | tool_result.tool_use_id
	Name      string // tool_use.name
	IsError   bool
}

func Text(text string) ClaudeBlock     { return ClaudeBlock{Type: "text", Text: text} }
func Thinking(text string) ClaudeBlock { return ClaudeBlock{Type: "thinking", Text: text} }
func ToolUse(id, name string) ClaudeBlock {
	return ClaudeBlock{Type: "tool_use", ID: id, Name: name}
}
func ToolResult(toolUseID, text string) ClaudeBlock {
	return ClaudeBlock{Type: "tool_result", ID: toolUseID, Text: text}
}

type claudeStep struct {
	entryType   string
	uuid        string
	parentUUID  *string
	role        string
	blocks      []ClaudeBlock
	stringBody  string
	isSidechain bool
}

// ClaudeBuilder assembles a sequence of entries into a Claude-dialect
// transcript. Entries are linked root-to-leaf in call order unless a
// defect option overrides the link.
type ClaudeBuilder struct {
	steps []claudeStep
	seq   int
}

// NewClaudeSession starts an empty builder.
func NewClaudeSession() *ClaudeBuilder {
	return &ClaudeBuilder{}
}

func (b *ClaudeBuilder) nextUUID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s%d", prefix, b.seq)
}

// UserMessage appends a user entry with bare-string content.
func (b *ClaudeBuilder) UserMessage(text string) *ClaudeBuilder {
	b.steps = append(b.steps, claudeStep{entryType: "user", role: "user", stringBody: text, uuid: b.nextUUID("u")})
	return b
}

// AssistantMessage appends an assistant entry with the given content blocks.
func (b *ClaudeBuilder) AssistantMessage(blocks ...ClaudeBlock) *ClaudeBuilder {
	b.steps = append(b.steps, claudeStep{entryType: "assistant", role: "assistant", blocks: blocks, uuid: b.nextUUID("a")})
	return b
}

// Sidechain marks the most recently appended entry as isSidechain=true.
func (b *ClaudeBuilder) Sidechain() *ClaudeBuilder {
	if n := len(b.steps); n > 0 {
		b.steps[n-1].isSidechain = true
	}
	return b
}

// WithBrokenParent rewrites the most recently appended entry's parentUuid
// to a uuid that doesn't exist anywhere in the session.
func (b *ClaudeBuilder) WithBrokenParent() *ClaudeBuilder {
	if n := len(b.steps); n > 0 {
		ghost := "missing-" + b.steps[n-1].uuid
		b.steps[n-1].parentUUID = &ghost
	}
	return b
}

// WithDuplicateUUID makes the most recently appended entry reuse the uuid
// of the entry immediately before it.
func (b *ClaudeBuilder) WithDuplicateUUID() *ClaudeBuilder {
	n := len(b.steps)
	if n < 2 {
		return b
	}
	b.steps[n-1].uuid = b.steps[n-2].uuid
	return b
}

// Build renders the accumulated steps as JSONL content, LF-terminated.
// Parent links are the previous entry's uuid unless a defect option
// already set one explicitly.
func (b *ClaudeBuilder) Build() string {
	var sb strings.Builder
	var prevUUID *string
	for _, step := range b.steps {
		parent := step.parentUUID
		if parent == nil {
			parent = prevUUID
		}
		sb.WriteString(renderClaudeLine(step, parent))
		sb.WriteByte('\n')
		uuid := step.uuid
		prevUUID = &uuid
	}
	return sb.String()
}

func renderClaudeLine(step claudeStep, parent *string) string {
	obj := map[string]any{
		"type":        step.entryType,
		"uuid":        step.uuid,
		"parentUuid":  parent,
		"isSidechain": step.isSidechain,
	}
	msg := map[string]any{"role": step.role}
	if len(step.blocks) == 0 {
		msg["content"] = step.stringBody
	}
	if len(step.blocks) > 0 {
		blocks := make([]map[string]any, 0, len(step.blocks))
		for _, blk := range step.blocks {
			bm := map[string]any{"type": blk.Type}
			switch blk.Type {
			case "text", "thinking":
				if blk.Type == "text" {
					bm["text"] = blk.Text
				} else {
					bm["thinking"] = blk.Text
				}
			case "tool_use":
				bm["id"] = blk.ID
				bm["name"] = blk.Name
				bm["input"] = map[string]any{}
			case "tool_result":
				bm["tool_use_id"] = blk.ID
				bm["content"] = blk.Text
				if blk.IsError {
					bm["is_error"] = true
				}
			}
			blocks = append(blocks, bm)
		}
		msg["content"] = blocks
	}
	obj["message"] = msg

	data, err := json.Marshal(obj)
	if err != nil {
		panic(err) // fixture construction never fails on well-formed inputs
	}
	return string(data)
}
