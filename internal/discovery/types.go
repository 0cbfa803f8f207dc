// Package discovery resolves a coding-agent transcript file from a working
// directory and an agent preference (spec.md §4.7). Grounded on the
// teacher's FindSessionFile/FindAllSessionFiles/FindRecentSessionFiles
// (monitor/jsonl.go) for the Claude project-hash scan, and CodexSource.
// Discover's YYYY/MM/DD walk (monitor/codex_source.go) for Codex.
package discovery

import "time"

// Candidate is one transcript file discovery considered, with its score
// and age at the time of discovery.
type Candidate struct {
	Path  string
	Score float64
	AgeMs int64
	Cwd   string // recorded working dir, when known (Codex session_meta.cwd)
}

// Report is the result of a single Discover call.
type Report struct {
	Agent        string // "claude" | "codex" | "unknown"
	Session      *Candidate
	Alternatives []Candidate
	Notes        []string
}

// Options configures a Discover call. Exactly one of Match/SessionID is
// normally set by a caller; both may be empty.
type Options struct {
	Cwd       string
	Agent     string // "auto" | "claude" | "codex"
	Match     string // substring filter over each candidate's tail lines
	SessionID string // bypasses scoring and resolves directly

	ClaudeProjectsDir string // override; default ~/.claude/projects
	CodexSessionsDir  string // override; default $CODEX_HOME/sessions or ~/.codex/sessions
	CodexLookbackDays int    // default 7
	TailLines         int    // default 50

	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) tailLines() int {
	if o.TailLines <= 0 {
		return 50
	}
	return o.TailLines
}

func (o Options) codexLookbackDays() int {
	if o.CodexLookbackDays <= 0 {
		return 7
	}
	return o.CodexLookbackDays
}
