package model

// Canonical issue codes (spec.md §4.4 and §4.3/§7 for core.invalid_json_line).
const (
	CodeBrokenParent               = "claude.broken_parent"
	CodeDuplicateUUID              = "claude.duplicate_uuid"
	CodeThinkingMisordered         = "claude.thinking_block_misordered"
	CodeOrphanToolResult           = "claude.orphan_tool_result"
	CodeOrphanToolUse              = "claude.orphan_tool_use"
	CodeAPIErrorMessage            = "claude.api_error_message"
	CodeCodexMissingSessionMeta    = "codex.missing_session_meta"
	CodeCodexFunctionCallUnmatched = "codex.function_call_unmatched"
	CodeInvalidJSONLine            = "core.invalid_json_line"
)
