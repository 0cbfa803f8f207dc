package projection

import (
	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/tokens"
)

// Summary is a read-only aggregate over a parsed session, grounded on
// monitor.ParseResult's aggregate-fields idiom (message/tool counts,
// token totals kept as plain summed fields rather than recomputed per
// query).
type Summary struct {
	Dialect       string `json:"dialect"`
	EntryCount    int    `json:"entryCount"`
	MessageCount  int    `json:"messageCount"`
	ToolUseCount  int    `json:"toolUseCount"`
	ErrorCount    int    `json:"errorCount"`
	WarningCount  int    `json:"warningCount"`
	TokensUsed    uint64 `json:"tokensUsed,omitempty"`
}

// AnalyzeClaude summarizes a Claude session given its validation issues
// and a token-counting function (the tokenizer itself is out of scope;
// see internal/tokens).
func AnalyzeClaude(s *model.ClaudeSession, issues []model.Issue, count tokens.CountFunc) Summary {
	sum := Summary{Dialect: "claude", EntryCount: len(s.Entries)}
	for _, e := range s.Entries {
		if e.Message == nil {
			continue
		}
		sum.MessageCount++
		for _, b := range e.Message.Blocks {
			if b.Type == model.BlockToolUse {
				sum.ToolUseCount++
			}
		}
	}
	sum.ErrorCount, sum.WarningCount = countBySeverity(issues)
	if count != nil {
		sum.TokensUsed = tokens.CountClaudeMessagesTokens(s, count)
	}
	return sum
}

// AnalyzeCodex summarizes a Codex session given its validation issues.
func AnalyzeCodex(s *model.CodexSession, issues []model.Issue) Summary {
	sum := Summary{Dialect: "codex", EntryCount: len(s.Entries)}
	for _, e := range s.ResponseItems() {
		switch e.PayloadType {
		case "message":
			sum.MessageCount++
		case "function_call":
			sum.ToolUseCount++
		}
	}
	sum.ErrorCount, sum.WarningCount = countBySeverity(issues)
	return sum
}

func countBySeverity(issues []model.Issue) (errors, warnings int) {
	for _, i := range issues {
		switch i.Severity {
		case model.SevError:
			errors++
		case model.SevWarning:
			warnings++
		}
	}
	return errors, warnings
}
