package transform

import (
	"testing"

	"github.com/teunlao/eversession/internal/model"
)

func TestStripClaudeRemovesNoiseTypes(t *testing.T) {
	content := `{"type":"file-history-snapshot","uuid":"f1","parentUuid":null}
{"type":"system","uuid":"s1","parentUuid":"f1"}
{"type":"user","uuid":"u1","parentUuid":"s1","message":{"role":"user","content":"hi"}}
`
	doc, s := loadClaudeFixture(t, content)
	next, cs := StripClaude(doc, s)
	if len(cs.Changes) != 2 {
		t.Fatalf("expected 2 deletes, got %+v", cs.Changes)
	}
	if len(next) != 1 {
		t.Fatalf("expected 1 line remaining, got %d", len(next))
	}
}

func TestStripClaudeRemovesEmptyContentMessages(t *testing.T) {
	content := `{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":""}}
{"type":"assistant","uuid":"a1","parentUuid":"u1","message":{"role":"assistant","content":[]}}
{"type":"user","uuid":"u2","parentUuid":"a1","message":{"role":"user","content":"real"}}
`
	doc, s := loadClaudeFixture(t, content)
	next, cs := StripClaude(doc, s)
	if len(cs.Changes) != 2 {
		t.Fatalf("expected 2 deletes, got %+v", cs.Changes)
	}
	if len(next) != 1 {
		t.Fatalf("expected 1 line remaining, got %d", len(next))
	}
}

func TestStripClaudeKeepsNonEmptyEntries(t *testing.T) {
	content := `{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":"hi"}}
`
	doc, s := loadClaudeFixture(t, content)
	next, cs := StripClaude(doc, s)
	if !cs.Empty() {
		t.Fatalf("expected no changes, got %+v", cs.Changes)
	}
	if len(next) != 1 {
		t.Fatalf("expected 1 line, got %d", len(next))
	}
}

func TestStripCodexRemovesTurnContextAndEventMsg(t *testing.T) {
	content := `{"timestamp":"t0","type":"session_meta","payload":{"id":"s1","cwd":"/tmp"}}
{"timestamp":"t1","type":"turn_context","payload":{}}
{"timestamp":"t2","type":"event_msg","payload":{}}
{"timestamp":"t3","type":"response_item","payload":{"type":"message","content":[{"type":"text","text":"hi"}]}}
`
	doc, s := loadCodexFixture(t, content)
	next, cs := StripCodex(doc, s)
	if len(cs.Changes) != 2 {
		t.Fatalf("expected 2 deletes, got %+v", cs.Changes)
	}
	if len(next) != 2 {
		t.Fatalf("expected 2 lines remaining, got %d", len(next))
	}
}

func TestStripCodexRemovesEmptyContentMessages(t *testing.T) {
	content := `{"timestamp":"t0","type":"response_item","payload":{"type":"message"}}
{"timestamp":"t1","type":"response_item","payload":{"type":"message","content":[]}}
{"timestamp":"t2","type":"response_item","payload":{"type":"message","content":""}}
{"timestamp":"t3","type":"response_item","payload":{"type":"message","content":[{"type":"text","text":"hi"}]}}
{"timestamp":"t4","type":"response_item","payload":{"type":"function_call","call_id":"c1","name":"run"}}
`
	doc, s := loadCodexFixture(t, content)
	next, cs := StripCodex(doc, s)
	if len(cs.Changes) != 3 {
		t.Fatalf("expected 3 deletes, got %+v", cs.Changes)
	}
	if len(next) != 2 {
		t.Fatalf("expected 2 lines remaining, got %d", len(next))
	}
}

func TestStripCodexChangeKindsAreDeletes(t *testing.T) {
	content := `{"timestamp":"t0","type":"turn_context","payload":{}}
`
	doc, s := loadCodexFixture(t, content)
	_, cs := StripCodex(doc, s)
	if len(cs.Changes) != 1 || cs.Changes[0].Kind != model.DeleteLine {
		t.Fatalf("expected one DeleteLine, got %+v", cs.Changes)
	}
}
