// Package parser turns raw JSONL lines into typed, indexed sessions for
// each of the two dialects. Grounded on the teacher's claude_source.go /
// codex_source.go incremental per-line dispatch, generalized from
// "extract rolling dashboard stats" to "build the full typed session
// graph".
package parser

import "github.com/teunlao/eversession/internal/model"

// Result is the outcome of parsing one transcript file: either a built
// session plus the core.invalid_json_line issues the parse itself surfaced
// (structural checks such as broken parent links and duplicate uuids are
// left to the validator), or, when the file could not be read at all or
// contained no recognizable entries, just the issues explaining why.
type Result struct {
	Claude *model.ClaudeSession // nil unless this was a Claude parse that succeeded
	Codex  *model.CodexSession  // nil unless this was a Codex parse that succeeded
	Issues []model.Issue
	Err    error // non-nil only for unreadable files; a session with zero
	// recognizable entries is also represented by a nil session + a
	// populated Issues slice, per spec: "Err is returned only if the file
	// could not be read or no entries were recognizable".
}

// OK reports whether a usable session was produced.
func (r Result) OK() bool {
	return r.Err == nil && (r.Claude != nil || r.Codex != nil)
}
