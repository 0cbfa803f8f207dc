package transform

import (
	"encoding/json"
	"math"

	"github.com/teunlao/eversession/internal/model"
)

// TrimOptions selects how many oldest messages Trim removes. Exactly one
// of Count or Percent should be set; KeepLastMessages caps how much of
// the chain Trim is allowed to touch regardless of Count/Percent.
type TrimOptions struct {
	Count            *int
	Percent          *float64
	KeepLastMessages int
}

func (o TrimOptions) removeCount(total int) int {
	maxRemovable := total - o.KeepLastMessages
	if maxRemovable < 0 {
		maxRemovable = 0
	}

	var want int
	switch {
	case o.Count != nil:
		want = *o.Count
	case o.Percent != nil:
		want = int(math.Floor(float64(total) * *o.Percent / 100))
	}
	if want > maxRemovable {
		want = maxRemovable
	}
	if want < 0 {
		want = 0
	}
	return want
}

// TrimClaude removes the oldest opts-selected entries from the leaf
// chain, then sets the new first kept entry's parentUuid to null so the
// chain is still rooted.
func TrimClaude(doc *Document, s *model.ClaudeSession, opts TrimOptions) ([]json.RawMessage, *model.ChangeSet) {
	cs := model.NewChangeSet()
	chain := s.LeafChainEntries()
	removeCount := opts.removeCount(len(chain))

	for i := 0; i < removeCount; i++ {
		cs.AddDelete(chain[i].Line, "trim")
	}
	if removeCount > 0 && removeCount < len(chain) {
		newRoot := chain[removeCount]
		newRaw, err := setParentUUID(newRoot.Raw, nil)
		if err == nil {
			cs.AddUpdate(newRoot.Line, "trim", newRaw)
		}
	}

	return Apply(doc, cs), cs
}

// TrimCodex removes the oldest opts-selected response_item entries.
// Codex entries carry no parent linkage to relink.
func TrimCodex(doc *Document, s *model.CodexSession, opts TrimOptions) ([]json.RawMessage, *model.ChangeSet) {
	cs := model.NewChangeSet()
	items := s.ResponseItems()
	removeCount := opts.removeCount(len(items))

	for i := 0; i < removeCount; i++ {
		cs.AddDelete(items[i].Line, "trim")
	}
	return Apply(doc, cs), cs
}
