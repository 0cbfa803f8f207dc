package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/teunlao/eversession/internal/parser"
)

func codexHomeDir() string {
	if env := os.Getenv("CODEX_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".codex")
}

func defaultCodexSessionsDir() string {
	base := codexHomeDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "sessions")
}

// discoverCodex walks the date-partitioned sessions directory
// (YYYY/MM/DD/rollout-*.jsonl) within the configured lookback window,
// scores each candidate, and applies the strict-fallback rule when the
// top-scoring file's recorded cwd doesn't match the request.
func discoverCodex(opts Options) (Report, error) {
	sessionsDir := opts.CodexSessionsDir
	if sessionsDir == "" {
		sessionsDir = defaultCodexSessionsDir()
	}
	if sessionsDir == "" {
		return Report{Agent: "codex", Notes: []string{"could not resolve a codex sessions directory"}}, nil
	}
	if _, err := os.Stat(sessionsDir); os.IsNotExist(err) {
		return Report{Agent: "codex", Notes: []string{"no sessions directory: " + sessionsDir}}, nil
	}

	now := opts.now()
	cutoff := now.AddDate(0, 0, -opts.codexLookbackDays())

	var candidates []Candidate
	err := filepath.WalkDir(sessionsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasPrefix(d.Name(), "rollout-") || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.ModTime().Before(cutoff) {
			return nil
		}

		ageMs := now.Sub(info.ModTime()).Milliseconds()
		s := score(ageMs, info.Size())

		cwd := sessionMetaCwd(path)
		if cwd != "" && cwd == opts.Cwd {
			s += cwdMatchBonus
		}

		candidates = append(candidates, Candidate{Path: path, Score: s, AgeMs: ageMs, Cwd: cwd})
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	candidates = filterByMatch(candidates, opts.Match, opts.tailLines())
	report := rankCandidates("codex", candidates)
	if report.Session == nil {
		return report, nil
	}

	if report.Session.Cwd != "" && report.Session.Cwd == opts.Cwd {
		return report, nil
	}

	// The top pick is a cross-cwd (or unknown-cwd) fallback: only resolve
	// confidently when it's decisively better than the runner-up.
	if len(report.Alternatives) == 0 {
		return report, nil
	}
	if !IsStrictFallbackAllowed(*report.Session, report.Alternatives[0]) {
		ambiguous := *report.Session
		report.Session = nil
		report.Alternatives = append([]Candidate{ambiguous}, report.Alternatives...)
		report.Notes = append(report.Notes, "top candidate's cwd does not match the request and the runner-up is too close to resolve confidently")
	}
	return report, nil
}

// findCodexSessionByID walks the sessions directory for a filename whose
// embedded uuid matches opts.SessionID (rollout-{timestamp}-{uuid}.jsonl),
// bypassing scoring entirely.
func findCodexSessionByID(opts Options) string {
	sessionsDir := opts.CodexSessionsDir
	if sessionsDir == "" {
		sessionsDir = defaultCodexSessionsDir()
	}
	if sessionsDir == "" {
		return ""
	}

	var found string
	_ = filepath.WalkDir(sessionsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || found != "" {
			return nil
		}
		if !strings.HasPrefix(d.Name(), "rollout-") || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		if strings.Contains(d.Name(), opts.SessionID) {
			found = path
		}
		return nil
	})
	return found
}

// sessionMetaCwd reads just enough of a Codex rollout file to recover its
// session_meta.cwd, returning "" if none is present or the file can't be
// parsed.
func sessionMetaCwd(path string) string {
	res := parser.ParseCodex(path)
	if res.Codex == nil || res.Codex.Meta == nil {
		return ""
	}
	return res.Codex.Meta.Cwd
}
