package projection

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/teunlao/eversession/internal/parser"
)

func loadClaude(t *testing.T, content string) *parser.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res := parser.ParseClaude(path)
	return &res
}

func loadCodex(t *testing.T, content string) *parser.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res := parser.ParseCodex(path)
	return &res
}

func TestExportClaudeRendersTypedEntries(t *testing.T) {
	res := loadClaude(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":[{"type":"text","text":"hi"}]}}
`)
	if !res.OK() {
		t.Fatalf("ParseClaude: %+v", res)
	}

	data, err := ExportClaude(res.Claude)
	if err != nil {
		t.Fatalf("ExportClaude: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 exported entry, got %d", len(out))
	}
	if out[0]["uuid"] != "a1" {
		t.Errorf("expected uuid a1, got %v", out[0]["uuid"])
	}
	if out[0]["blockTypes"].([]any)[0] != "text" {
		t.Errorf("expected blockTypes [text], got %v", out[0]["blockTypes"])
	}
}

func TestExportCodexRendersTypedEntries(t *testing.T) {
	res := loadCodex(t, `{"timestamp":"t0","type":"session_meta","payload":{"id":"s1","cwd":"/x"}}
{"timestamp":"t1","type":"response_item","payload":{"type":"message","role":"assistant","content":[]}}
`)
	if !res.OK() {
		t.Fatalf("ParseCodex: %+v", res)
	}

	data, err := ExportCodex(res.Codex)
	if err != nil {
		t.Fatalf("ExportCodex: %v", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 exported entries, got %d", len(out))
	}
	if out[1]["payloadType"] != "message" {
		t.Errorf("expected payloadType message, got %v", out[1]["payloadType"])
	}
}
