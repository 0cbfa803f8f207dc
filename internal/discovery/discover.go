package discovery

import (
	"fmt"
)

// Discover resolves a transcript file for opts.Cwd, honoring
// --session-id (bypasses scoring) and --match (substring over each
// candidate's tail lines). With Agent == "auto", Claude is tried first,
// then Codex, matching the corpus's own Claude-first source ordering.
func Discover(opts Options) (Report, error) {
	if opts.SessionID != "" {
		return discoverBySessionID(opts)
	}

	switch opts.Agent {
	case "claude":
		return discoverClaude(opts)
	case "codex":
		return discoverCodex(opts)
	case "", "auto":
		return discoverAuto(opts)
	default:
		return Report{}, fmt.Errorf("unknown agent preference %q", opts.Agent)
	}
}

func discoverAuto(opts Options) (Report, error) {
	claudeReport, err := discoverClaude(opts)
	if err != nil {
		return Report{}, err
	}
	if claudeReport.Session != nil {
		return claudeReport, nil
	}

	codexReport, err := discoverCodex(opts)
	if err != nil {
		return Report{}, err
	}
	if codexReport.Session != nil {
		return codexReport, nil
	}

	notes := append(append([]string{}, claudeReport.Notes...), codexReport.Notes...)
	return Report{Agent: "unknown", Notes: notes}, nil
}

// discoverBySessionID looks for a file named "<id>.jsonl" (Claude) or
// "rollout-*-<id>.jsonl" (Codex) across both dialects' directories,
// skipping scoring entirely.
func discoverBySessionID(opts Options) (Report, error) {
	if opts.Agent != "codex" {
		if path := findClaudeSessionByID(opts); path != "" {
			return Report{Agent: "claude", Session: &Candidate{Path: path}}, nil
		}
	}
	if opts.Agent != "claude" {
		if path := findCodexSessionByID(opts); path != "" {
			return Report{Agent: "codex", Session: &Candidate{Path: path}}, nil
		}
	}
	return Report{Agent: "unknown", Notes: []string{"no transcript found for session id " + opts.SessionID}}, nil
}
