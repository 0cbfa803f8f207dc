package fixtures

import (
	"encoding/json"
	"strings"
)

type codexStep struct {
	typ       string
	payload   map[string]any
	timestamp string
}

// CodexBuilder assembles a sequence of envelope lines into a Codex-dialect
// transcript.
type CodexBuilder struct {
	steps []codexStep
	seq   int
}

// NewCodexSession starts an empty builder.
func NewCodexSession() *CodexBuilder {
	return &CodexBuilder{}
}

func (b *CodexBuilder) nextTs() string {
	b.seq++
	return "t" + itoa(b.seq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

// SessionMeta appends the session_meta envelope.
func (b *CodexBuilder) SessionMeta(id, cwd string) *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "session_meta", payload: map[string]any{"id": id, "cwd": cwd}, timestamp: b.nextTs()})
	return b
}

// Message appends a response_item/message envelope.
func (b *CodexBuilder) Message(role, text string) *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "response_item", payload: map[string]any{
		"type": "message", "role": role, "content": []map[string]any{{"type": "text", "text": text}},
	}, timestamp: b.nextTs()})
	return b
}

// FunctionCall appends a response_item/function_call envelope.
func (b *CodexBuilder) FunctionCall(callID, name string) *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "response_item", payload: map[string]any{
		"type": "function_call", "call_id": callID, "name": name,
	}, timestamp: b.nextTs()})
	return b
}

// FunctionCallOutput appends a response_item/function_call_output envelope.
func (b *CodexBuilder) FunctionCallOutput(callID, output string) *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "response_item", payload: map[string]any{
		"type": "function_call_output", "call_id": callID, "output": output,
	}, timestamp: b.nextTs()})
	return b
}

// TurnContext appends a turn_context envelope, noise stripped by StripCodex.
func (b *CodexBuilder) TurnContext() *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "turn_context", payload: map[string]any{}, timestamp: b.nextTs()})
	return b
}

// EventMsg appends an event_msg envelope, noise stripped by StripCodex.
func (b *CodexBuilder) EventMsg() *CodexBuilder {
	b.steps = append(b.steps, codexStep{typ: "event_msg", payload: map[string]any{}, timestamp: b.nextTs()})
	return b
}

// Build renders the accumulated steps as JSONL content, LF-terminated.
func (b *CodexBuilder) Build() string {
	var sb strings.Builder
	for _, step := range b.steps {
		payload, err := json.Marshal(step.payload)
		if err != nil {
			panic(err)
		}
		line, err := json.Marshal(map[string]any{
			"timestamp": step.timestamp,
			"type":      step.typ,
			"payload":   json.RawMessage(payload),
		})
		if err != nil {
			panic(err)
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
