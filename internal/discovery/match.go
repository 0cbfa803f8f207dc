package discovery

import (
	"os"
	"sort"
	"strings"

	"github.com/teunlao/eversession/internal/jsonlio"
)

// filterByMatch keeps only candidates whose last tailLines lines contain
// match as a substring. An empty match is a no-op.
func filterByMatch(candidates []Candidate, match string, tailLines int) []Candidate {
	if match == "" {
		return candidates
	}
	var out []Candidate
	for _, c := range candidates {
		if matchesTail(c.Path, match, tailLines) {
			out = append(out, c)
		}
	}
	return out
}

func matchesTail(path, match string, tailLines int) bool {
	lines, err := jsonlio.ReadAll(path)
	if err != nil {
		return false
	}
	start := 0
	if len(lines) > tailLines {
		start = len(lines) - tailLines
	}
	for _, l := range lines[start:] {
		if strings.Contains(string(l.Raw), match) {
			return true
		}
	}
	return false
}

// rankCandidates sorts candidates by score descending (ties by path, for
// determinism) and splits them into the chosen session plus alternatives.
func rankCandidates(agent string, candidates []Candidate) Report {
	if len(candidates) == 0 {
		return Report{Agent: agent, Notes: []string{"no candidate transcripts found"}}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Path < candidates[j].Path
	})
	top := candidates[0]
	return Report{
		Agent:        agent,
		Session:      &top,
		Alternatives: candidates[1:],
	}
}

// fileExists is a small os.Stat wrapper kept here because every
// discoverer in this package needs the same existence check.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
