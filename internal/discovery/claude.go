package discovery

import (
	"os"
	"path/filepath"
	"strings"
)

// encodeProjectPath mirrors Claude Code's own project-directory hash: the
// cwd with every "/" replaced by "-" (including the leading one).
func encodeProjectPath(cwd string) string {
	clean := filepath.Clean(cwd)
	return strings.ReplaceAll(clean, "/", "-")
}

func defaultClaudeProjectsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "projects")
}

// discoverClaude scans <projects_dir>/<projectHash>/*.jsonl — no
// cross-project fallback, since the project hash already pins the search
// to the requested cwd.
func discoverClaude(opts Options) (Report, error) {
	projectsDir := opts.ClaudeProjectsDir
	if projectsDir == "" {
		projectsDir = defaultClaudeProjectsDir()
	}
	projectDir := filepath.Join(projectsDir, encodeProjectPath(opts.Cwd))

	entries, err := os.ReadDir(projectDir)
	if os.IsNotExist(err) {
		return Report{Agent: "claude", Notes: []string{"no project directory for this cwd: " + projectDir}}, nil
	}
	if err != nil {
		return Report{}, err
	}

	now := opts.now()
	var candidates []Candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(projectDir, e.Name())
		ageMs := now.Sub(info.ModTime()).Milliseconds()
		candidates = append(candidates, Candidate{
			Path:  path,
			Score: score(ageMs, info.Size()),
			AgeMs: ageMs,
		})
	}

	candidates = filterByMatch(candidates, opts.Match, opts.tailLines())
	return rankCandidates("claude", candidates), nil
}

// findClaudeSessionByID looks for "<projectHash>/<id>.jsonl" directly,
// bypassing scoring entirely.
func findClaudeSessionByID(opts Options) string {
	projectsDir := opts.ClaudeProjectsDir
	if projectsDir == "" {
		projectsDir = defaultClaudeProjectsDir()
	}
	path := filepath.Join(projectsDir, encodeProjectPath(opts.Cwd), opts.SessionID+".jsonl")
	if fileExists(path) {
		return path
	}
	return ""
}
