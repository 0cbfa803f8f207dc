package transform

import (
	"encoding/json"
	"sort"

	"github.com/teunlao/eversession/internal/model"
)

type lineValue struct {
	Line  int
	Value json.RawMessage
}

// Apply reconstructs the next document content from doc's current lines
// plus cs: updates replace a line's value in place, inserts splice new
// values in after a given line (processed descending so earlier splices
// don't shift later targets), and deletes then drop every line whose
// original line number is marked for deletion. The tie-break within identical line
// targets — DeleteLine before UpdateLine before InsertAfter — is whatever
// model.ChangeSet.Sorted already guarantees; Apply itself only needs the
// per-kind ordering, since each kind touches a disjoint part of the
// reconstruction.
func Apply(doc *Document, cs *model.ChangeSet) []json.RawMessage {
	cur := make([]lineValue, 0, len(doc.Order))
	for _, line := range doc.Order {
		cur = append(cur, lineValue{Line: line, Value: doc.Lines[line]})
	}

	for line, val := range cs.Updates {
		for i := range cur {
			if cur[i].Line == line {
				cur[i].Value = val
				break
			}
		}
	}

	if len(cs.Inserts) > 0 {
		afterLines := make([]int, 0, len(cs.Inserts))
		for after := range cs.Inserts {
			afterLines = append(afterLines, after)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(afterLines)))

		for _, after := range afterLines {
			values := cs.Inserts[after]
			idx := -1
			for i, lv := range cur {
				if lv.Line == after {
					idx = i
					break
				}
			}
			if idx == -1 {
				// afterLine == 0 means "before the first line".
				if after == 0 {
					idx = -1
				} else {
					continue
				}
			}
			inserted := make([]lineValue, 0, len(values))
			for _, v := range values {
				inserted = append(inserted, lineValue{Line: -1, Value: v})
			}
			tail := append([]lineValue(nil), cur[idx+1:]...)
			cur = append(cur[:idx+1], append(inserted, tail...)...)
		}
	}

	if len(cs.Changes) > 0 {
		deleteLines := make(map[int]bool)
		for _, c := range cs.Changes {
			if c.Kind == model.DeleteLine {
				deleteLines[c.Line] = true
			}
		}
		if len(deleteLines) > 0 {
			filtered := cur[:0:0]
			for _, lv := range cur {
				if lv.Line != -1 && deleteLines[lv.Line] {
					continue
				}
				filtered = append(filtered, lv)
			}
			cur = filtered
		}
	}

	out := make([]json.RawMessage, 0, len(cur))
	for _, lv := range cur {
		out = append(out, lv.Value)
	}
	return out
}
