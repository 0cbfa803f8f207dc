package projection

import (
	"fmt"
	"sort"

	"github.com/teunlao/eversession/internal/model"
)

// DiffClaude returns a human-readable list of structural differences
// between two Claude sessions: entries added/removed, parent relinks,
// and issue-count deltas. Grounded directly on config.Diff(old, new
// *Config) []string — the same "two structures in, ordered []string of
// change descriptions out" shape, applied to session-vs-session instead
// of config-vs-config.
func DiffClaude(a, b *model.ClaudeSession, aIssues, bIssues []model.Issue) []string {
	var changes []string

	for uuid := range a.ByUUID {
		if _, ok := b.ByUUID[uuid]; !ok {
			changes = append(changes, fmt.Sprintf("entry removed: %s", uuid))
		}
	}
	for uuid := range b.ByUUID {
		if _, ok := a.ByUUID[uuid]; !ok {
			changes = append(changes, fmt.Sprintf("entry added: %s", uuid))
		}
	}

	for uuid, ea := range a.ByUUID {
		eb, ok := b.ByUUID[uuid]
		if !ok {
			continue
		}
		if !equalParent(ea.ParentUUID, eb.ParentUUID) {
			changes = append(changes, fmt.Sprintf("entry %s: parent relinked %s -> %s", uuid, derefOrNull(ea.ParentUUID), derefOrNull(eb.ParentUUID)))
		}
	}

	sort.Strings(changes)

	if len(aIssues) != len(bIssues) {
		changes = append(changes, fmt.Sprintf("issue count: %d -> %d", len(aIssues), len(bIssues)))
	}

	return changes
}

func equalParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefOrNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
