package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/parser"
	"github.com/teunlao/eversession/internal/validator"
)

func parseClaudeContent(t *testing.T, content string) *parser.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res := parser.ParseClaude(path)
	return &res
}

func parseCodexContent(t *testing.T, content string) *parser.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res := parser.ParseCodex(path)
	return &res
}

func hasCode(issues []model.Issue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func TestClaudeBuilderProducesParseableChain(t *testing.T) {
	content := NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(Text("hi back")).
		Build()

	res := parseClaudeContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseClaude: err=%v issues=%v", res.Err, res.Issues)
	}
	if len(res.Claude.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Claude.Entries))
	}
	if res.Claude.Entries[1].ParentUUID == nil || *res.Claude.Entries[1].ParentUUID != res.Claude.Entries[0].UUID {
		t.Errorf("expected second entry to link to first by default")
	}
}

func TestClaudeBuilderWithBrokenParentTriggersValidatorIssue(t *testing.T) {
	content := NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(Text("hi")).WithBrokenParent().
		Build()

	res := parseClaudeContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseClaude: err=%v issues=%v", res.Err, res.Issues)
	}
	issues := validator.ValidateClaude(res.Claude, res.Issues)
	if !hasCode(issues, model.CodeBrokenParent) {
		t.Errorf("expected a broken_parent issue, got %+v", issues)
	}
}

func TestClaudeBuilderWithDuplicateUUIDTriggersValidatorIssue(t *testing.T) {
	content := NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(Text("hi")).WithDuplicateUUID().
		Build()

	res := parseClaudeContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseClaude: err=%v issues=%v", res.Err, res.Issues)
	}
	issues := validator.ValidateClaude(res.Claude, res.Issues)
	if !hasCode(issues, model.CodeDuplicateUUID) {
		t.Errorf("expected a duplicate_uuid issue, got %+v", issues)
	}
}

func TestClaudeBuilderOrphanToolResultTriggersValidatorIssue(t *testing.T) {
	content := NewClaudeSession().
		AssistantMessage(Text("ok"), ToolResult("T0", "result with no matching tool_use")).
		Build()

	res := parseClaudeContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseClaude: err=%v issues=%v", res.Err, res.Issues)
	}
	issues := validator.ValidateClaude(res.Claude, res.Issues)
	if !hasCode(issues, model.CodeOrphanToolResult) {
		t.Errorf("expected an orphan_tool_result issue, got %+v", issues)
	}
}

func TestClaudeBuilderPairedToolUseToolResultHasNoOrphanIssue(t *testing.T) {
	content := NewClaudeSession().
		AssistantMessage(ToolUse("T0", "bash")).
		AssistantMessage(ToolResult("T0", "ok")).
		Build()

	res := parseClaudeContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseClaude: err=%v issues=%v", res.Err, res.Issues)
	}
	issues := validator.ValidateClaude(res.Claude, res.Issues)
	if hasCode(issues, model.CodeOrphanToolResult) {
		t.Errorf("expected no orphan_tool_result issue for a paired tool_use/tool_result, got %+v", issues)
	}
}

func TestCodexBuilderProducesParseableSession(t *testing.T) {
	content := NewCodexSession().
		SessionMeta("s1", "/home/user/proj").
		Message("user", "hello").
		FunctionCall("c1", "bash").
		FunctionCallOutput("c1", "ok").
		TurnContext().
		EventMsg().
		Build()

	res := parseCodexContent(t, content)
	if !res.OK() {
		t.Fatalf("ParseCodex: err=%v issues=%v", res.Err, res.Issues)
	}
	if res.Codex.Meta == nil || res.Codex.Meta.Cwd != "/home/user/proj" {
		t.Fatalf("expected session meta with cwd, got %+v", res.Codex.Meta)
	}
	if len(res.Codex.Entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(res.Codex.Entries))
	}
}
