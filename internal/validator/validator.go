// Package validator inspects a parsed session and reports an ordered list
// of model.Issue values. Grounded stylistically on the teacher's
// monitor/health.go sourceHealth type: a small, pure, lock-free pass over
// already-built data, not a stateful service.
package validator

import (
	"encoding/json"
	"strings"

	"github.com/teunlao/eversession/internal/model"
)

// ValidateClaude runs all claude.* and core.* checks over a parsed
// session, in the canonical order spec.md §4.4 lists them, plus the
// core.invalid_json_line issues the parser already collected for this
// file.
func ValidateClaude(s *model.ClaudeSession, parseIssues []model.Issue) []model.Issue {
	var issues []model.Issue
	issues = append(issues, parseIssues...)
	issues = append(issues, checkBrokenParent(s)...)
	issues = append(issues, checkDuplicateUUID(s)...)
	issues = append(issues, checkThinkingOrder(s)...)
	issues = append(issues, checkOrphanToolResult(s)...)
	issues = append(issues, checkOrphanToolUse(s)...)
	issues = append(issues, checkAPIErrorMessage(s)...)
	return issues
}

// ValidateCodex runs all codex.* checks over a parsed session, plus the
// core.invalid_json_line issues already collected by the parser.
func ValidateCodex(s *model.CodexSession, parseIssues []model.Issue) []model.Issue {
	var issues []model.Issue
	issues = append(issues, parseIssues...)
	issues = append(issues, checkMissingSessionMeta(s)...)
	issues = append(issues, checkFunctionCallUnmatched(s)...)
	return issues
}

func checkBrokenParent(s *model.ClaudeSession) []model.Issue {
	var out []model.Issue
	for _, e := range s.Entries {
		if e.ParentUUID == nil || *e.ParentUUID == "" {
			continue
		}
		if _, ok := s.ByUUID[*e.ParentUUID]; !ok {
			out = append(out, model.Issue{
				Severity: model.SevError,
				Code:     model.CodeBrokenParent,
				Message:  "parentUuid " + *e.ParentUUID + " is not present in this transcript",
				Location: model.EntryLocation{Path: s.Path, EntryID: e.UUID},
				Details:  map[string]string{"parentUuid": *e.ParentUUID},
			})
		}
	}
	return out
}

func checkDuplicateUUID(s *model.ClaudeSession) []model.Issue {
	var out []model.Issue
	seen := make(map[string]bool)
	for _, e := range s.Entries {
		if e.UUID == "" {
			continue
		}
		if seen[e.UUID] {
			out = append(out, model.Issue{
				Severity: model.SevError,
				Code:     model.CodeDuplicateUUID,
				Message:  "uuid " + e.UUID + " is used by more than one entry",
				Location: model.EntryLocation{Path: s.Path, EntryID: e.UUID},
			})
			continue
		}
		seen[e.UUID] = true
	}
	return out
}

// checkThinkingOrder flags an assistant message whose thinking blocks
// aren't all at the head of the content sequence. Open question (c):
// relative order among multiple thinking blocks is never itself flagged,
// only their position relative to non-thinking content.
func checkThinkingOrder(s *model.ClaudeSession) []model.Issue {
	var out []model.Issue
	for _, e := range s.Entries {
		if e.Type != "assistant" || e.Message == nil || e.Message.IsString {
			continue
		}
		sawNonThinking := false
		misordered := false
		for _, b := range e.Message.Blocks {
			if b.Type == model.BlockThinking {
				if sawNonThinking {
					misordered = true
					break
				}
			} else {
				sawNonThinking = true
			}
		}
		if misordered {
			out = append(out, model.Issue{
				Severity: model.SevError,
				Code:     model.CodeThinkingMisordered,
				Message:  "assistant message has a thinking block that is not at the head of its content",
				Location: model.EntryLocation{Path: s.Path, EntryID: e.UUID},
			})
		}
	}
	return out
}

// checkOrphanToolResult flags a tool_result whose tool_use_id was never
// produced by a tool_use in the same chain. Open question (a): sidechain
// entries are excluded from this check, implementation-defined per
// spec.md §9.
func checkOrphanToolResult(s *model.ClaudeSession) []model.Issue {
	toolUseIDs := CollectToolUseIDs(s)
	var out []model.Issue
	for _, e := range s.Entries {
		if e.IsSidechain || e.Message == nil || e.Message.IsString {
			continue
		}
		for _, b := range e.Message.Blocks {
			if b.Type != model.BlockToolResult {
				continue
			}
			if !toolUseIDs[b.ToolUseID] {
				out = append(out, model.Issue{
					Severity: model.SevWarning,
					Code:     model.CodeOrphanToolResult,
					Message:  "tool_result refers to tool_use_id " + b.ToolUseID + " which no tool_use in this chain produced",
					Location: model.PairLocation{Path: s.Path, CallID: b.ToolUseID},
				})
			}
		}
	}
	return out
}

// checkOrphanToolUse flags a tool_use with no matching tool_result.
// Informational only — mid-conversation tool calls may still be in
// flight, and fixers must never remove these by default.
func checkOrphanToolUse(s *model.ClaudeSession) []model.Issue {
	resultIDs := CollectToolResultIDs(s)
	var out []model.Issue
	for _, e := range s.Entries {
		if e.IsSidechain || e.Message == nil || e.Message.IsString {
			continue
		}
		for _, b := range e.Message.Blocks {
			if b.Type != model.BlockToolUse {
				continue
			}
			if !resultIDs[b.ToolUseID] {
				out = append(out, model.Issue{
					Severity: model.SevInfo,
					Code:     model.CodeOrphanToolUse,
					Message:  "tool_use " + b.ToolUseID + " has no matching tool_result",
					Location: model.PairLocation{Path: s.Path, CallID: b.ToolUseID},
				})
			}
		}
	}
	return out
}

// CollectToolUseIDs returns the set of tool_use ids present in non-sidechain
// messages, for pairing against tool_result blocks.
func CollectToolUseIDs(s *model.ClaudeSession) map[string]bool {
	ids := make(map[string]bool)
	for _, e := range s.Entries {
		if e.IsSidechain || e.Message == nil || e.Message.IsString {
			continue
		}
		for _, b := range e.Message.Blocks {
			if b.Type == model.BlockToolUse && b.ToolUseID != "" {
				ids[b.ToolUseID] = true
			}
		}
	}
	return ids
}

// CollectToolResultIDs returns the set of tool_use_ids referenced by
// tool_result blocks in non-sidechain messages.
func CollectToolResultIDs(s *model.ClaudeSession) map[string]bool {
	ids := make(map[string]bool)
	for _, e := range s.Entries {
		if e.IsSidechain || e.Message == nil || e.Message.IsString {
			continue
		}
		for _, b := range e.Message.Blocks {
			if b.Type == model.BlockToolResult && b.ToolUseID != "" {
				ids[b.ToolUseID] = true
			}
		}
	}
	return ids
}

// apiErrorPrefixes are the well-known prefixes the upstream API uses for
// error payloads surfaced as an assistant message instead of an actual
// turn.
var apiErrorPrefixes = []string{"API Error", "api error"}

func checkAPIErrorMessage(s *model.ClaudeSession) []model.Issue {
	var out []model.Issue
	for _, e := range s.Entries {
		if e.Type != "assistant" || e.Message == nil {
			continue
		}
		if IsAPIErrorMessage(e.Message) {
			out = append(out, model.Issue{
				Severity: model.SevInfo,
				Code:     model.CodeAPIErrorMessage,
				Message:  "assistant message content is a well-known API error payload",
				Location: model.EntryLocation{Path: s.Path, EntryID: e.UUID},
			})
		}
	}
	return out
}

// IsAPIErrorMessage reports whether msg's content is the well-known API
// error payload (a bare string, or a single text block, starting with one
// of the recognized prefixes).
func IsAPIErrorMessage(msg *model.ClaudeMessage) bool {
	text := msg.Text
	if !msg.IsString {
		if len(msg.Blocks) != 1 || msg.Blocks[0].Type != model.BlockText {
			return false
		}
		text = msg.Blocks[0].Text
	}
	for _, prefix := range apiErrorPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func checkMissingSessionMeta(s *model.CodexSession) []model.Issue {
	if s.Meta != nil {
		return nil
	}
	return []model.Issue{{
		Severity: model.SevError,
		Code:     model.CodeCodexMissingSessionMeta,
		Message:  "no session_meta record present in this transcript",
		Location: model.FileLocation{Path: s.Path},
	}}
}

// checkFunctionCallUnmatched flags a function_call without a matching
// function_call_output, paired by call_id. Open question (b): entries
// whose payload.type is absent are opaque and never examined here.
func checkFunctionCallUnmatched(s *model.CodexSession) []model.Issue {
	outputIDs := make(map[string]bool)
	for _, e := range s.ResponseItems() {
		if e.PayloadType != "function_call_output" {
			continue
		}
		if id, ok := callID(e); ok {
			outputIDs[id] = true
		}
	}

	var out []model.Issue
	for _, e := range s.ResponseItems() {
		if e.PayloadType != "function_call" {
			continue
		}
		id, ok := callID(e)
		if !ok || outputIDs[id] {
			continue
		}
		out = append(out, model.Issue{
			Severity: model.SevWarning,
			Code:     model.CodeCodexFunctionCallUnmatched,
			Message:  "function_call has no matching function_call_output",
			Location: model.PairLocation{Path: s.Path, CallID: id},
		})
	}
	return out
}

func callID(e *model.CodexEntry) (string, bool) {
	var w struct {
		CallID string `json:"call_id"`
	}
	if len(e.Payload) == 0 {
		return "", false
	}
	if err := json.Unmarshal(e.Payload, &w); err != nil || w.CallID == "" {
		return "", false
	}
	return w.CallID, true
}
