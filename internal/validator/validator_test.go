package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/parser"
)

func parseClaudeFixture(t *testing.T, content string) *model.ClaudeSession {
	t.Helper()
	res := parser.ParseClaude(writeTemp(t, content))
	if !res.OK() {
		t.Fatalf("fixture failed to parse: err=%v issues=%v", res.Err, res.Issues)
	}
	return res.Claude
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCheckBrokenParent(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":"missing","message":{"role":"assistant","content":"hi"}}
`)
	issues := ValidateClaude(s, nil)
	if !hasCode(issues, model.CodeBrokenParent) {
		t.Errorf("expected claude.broken_parent, got %+v", issues)
	}
}

func TestCheckDuplicateUUID(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":"a"}}
{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":"b"}}
`)
	issues := ValidateClaude(s, nil)
	if !hasCode(issues, model.CodeDuplicateUUID) {
		t.Errorf("expected claude.duplicate_uuid, got %+v", issues)
	}
}

func TestCheckThinkingOrderMisordered(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":[{"type":"text","text":"a"},{"type":"thinking","thinking":"t"}]}}
`)
	issues := ValidateClaude(s, nil)
	if !hasCode(issues, model.CodeThinkingMisordered) {
		t.Errorf("expected claude.thinking_block_misordered, got %+v", issues)
	}
}

func TestCheckThinkingOrderOK(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":[{"type":"thinking","thinking":"t"},{"type":"text","text":"a"}]}}
`)
	issues := ValidateClaude(s, nil)
	if hasCode(issues, model.CodeThinkingMisordered) {
		t.Errorf("did not expect claude.thinking_block_misordered, got %+v", issues)
	}
}

func TestCheckOrphanToolResultAndUse(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":[{"type":"text","text":"ok"},{"type":"tool_result","tool_use_id":"T0"}]}}
`)
	issues := ValidateClaude(s, nil)
	if !hasCode(issues, model.CodeOrphanToolResult) {
		t.Errorf("expected claude.orphan_tool_result, got %+v", issues)
	}

	s2 := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":[{"type":"tool_use","id":"T0","name":"Bash","input":{}}]}}
`)
	issues2 := ValidateClaude(s2, nil)
	if !hasCode(issues2, model.CodeOrphanToolUse) {
		t.Errorf("expected claude.orphan_tool_use, got %+v", issues2)
	}
	for _, iss := range issues2 {
		if iss.Code == model.CodeOrphanToolUse && iss.Severity != model.SevInfo {
			t.Errorf("expected orphan_tool_use severity info, got %v", iss.Severity)
		}
	}
}

func TestCheckOrphanToolResultExcludesSidechain(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"isSidechain":true,"message":{"role":"assistant","content":[{"type":"tool_result","tool_use_id":"T0"}]}}
`)
	issues := ValidateClaude(s, nil)
	if hasCode(issues, model.CodeOrphanToolResult) {
		t.Errorf("sidechain entries should be excluded from orphan_tool_result, got %+v", issues)
	}
}

func TestCheckAPIErrorMessage(t *testing.T) {
	s := parseClaudeFixture(t, `{"type":"assistant","uuid":"a1","parentUuid":null,"message":{"role":"assistant","content":"API Error: rate limited"}}
`)
	issues := ValidateClaude(s, nil)
	if !hasCode(issues, model.CodeAPIErrorMessage) {
		t.Errorf("expected claude.api_error_message, got %+v", issues)
	}
}

func hasCode(issues []model.Issue, code string) bool {
	for _, iss := range issues {
		if iss.Code == code {
			return true
		}
	}
	return false
}
