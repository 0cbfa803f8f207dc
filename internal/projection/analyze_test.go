package projection

import (
	"strings"
	"testing"

	"github.com/teunlao/eversession/internal/model"
)

func wordCounter(text string) uint64 {
	if text == "" {
		return 0
	}
	return uint64(len(strings.Fields(text)))
}

func TestAnalyzeClaudeCountsMessagesToolsAndIssues(t *testing.T) {
	res := loadClaude(t, `{"type":"user","uuid":"u1","parentUuid":null,"message":{"role":"user","content":"hello there"}}
{"type":"assistant","uuid":"a1","parentUuid":"u1","message":{"role":"assistant","content":[{"type":"tool_use","id":"T0","name":"bash"}]}}
`)
	if !res.OK() {
		t.Fatalf("ParseClaude: %+v", res)
	}

	issues := []model.Issue{
		{Severity: model.SevError, Code: "x"},
		{Severity: model.SevWarning, Code: "y"},
		{Severity: model.SevWarning, Code: "z"},
	}

	sum := AnalyzeClaude(res.Claude, issues, wordCounter)
	if sum.Dialect != "claude" {
		t.Errorf("expected dialect claude, got %s", sum.Dialect)
	}
	if sum.EntryCount != 2 {
		t.Errorf("expected 2 entries, got %d", sum.EntryCount)
	}
	if sum.MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", sum.MessageCount)
	}
	if sum.ToolUseCount != 1 {
		t.Errorf("expected 1 tool use, got %d", sum.ToolUseCount)
	}
	if sum.ErrorCount != 1 || sum.WarningCount != 2 {
		t.Errorf("expected 1 error / 2 warnings, got %d/%d", sum.ErrorCount, sum.WarningCount)
	}
	if sum.TokensUsed == 0 {
		t.Errorf("expected non-zero token count from the leaf chain")
	}
}

func TestAnalyzeCodexCountsMessagesAndFunctionCalls(t *testing.T) {
	res := loadCodex(t, `{"timestamp":"t0","type":"session_meta","payload":{"id":"s1","cwd":"/x"}}
{"timestamp":"t1","type":"response_item","payload":{"type":"message","role":"assistant","content":[]}}
{"timestamp":"t2","type":"response_item","payload":{"type":"function_call","name":"bash"}}
`)
	if !res.OK() {
		t.Fatalf("ParseCodex: %+v", res)
	}

	sum := AnalyzeCodex(res.Codex, nil)
	if sum.Dialect != "codex" {
		t.Errorf("expected dialect codex, got %s", sum.Dialect)
	}
	if sum.MessageCount != 1 {
		t.Errorf("expected 1 message, got %d", sum.MessageCount)
	}
	if sum.ToolUseCount != 1 {
		t.Errorf("expected 1 function call, got %d", sum.ToolUseCount)
	}
}
