package model

import "encoding/json"

// ChangeKind distinguishes the three edit primitives a transformer can emit.
type ChangeKind int

const (
	DeleteLine ChangeKind = iota
	UpdateLine
	InsertAfter
)

func (k ChangeKind) String() string {
	switch k {
	case DeleteLine:
		return "delete"
	case UpdateLine:
		return "update"
	case InsertAfter:
		return "insert_after"
	default:
		return "unknown"
	}
}

// Change is a single line-indexed edit. Line numbers are always 1-based
// original-file indices. For InsertAfter, Line names the line after which
// new content is spliced (0 means "before the first line").
type Change struct {
	Kind   ChangeKind
	Line   int
	Reason string
}

// ChangeSet is an ordered list of Changes plus the side-tables a transformer
// uses to carry the actual replacement/insertion payloads. Updates maps a
// line number to its replacement value (for UpdateLine changes); Inserts
// maps an "after" line number to the ordered list of values to splice in
// (for InsertAfter changes). Changes are kept in the order they were added;
// Sorted returns them ordered by line. At most one UpdateLine per line.
type ChangeSet struct {
	Changes []Change
	Updates map[int]json.RawMessage
	Inserts map[int][]json.RawMessage
}

// NewChangeSet returns an empty, ready-to-use ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Updates: make(map[int]json.RawMessage),
		Inserts: make(map[int][]json.RawMessage),
	}
}

// AddDelete records a DeleteLine change.
func (cs *ChangeSet) AddDelete(line int, reason string) {
	cs.Changes = append(cs.Changes, Change{Kind: DeleteLine, Line: line, Reason: reason})
}

// AddUpdate records an UpdateLine change and its replacement value. If line
// already has a pending update, the new value overwrites it (callers are
// responsible for not emitting two logically distinct updates for the same
// line — the invariant spec.md requires is enforced by convention here,
// same as the teacher's single-writer-per-field discipline elsewhere).
func (cs *ChangeSet) AddUpdate(line int, reason string, value json.RawMessage) {
	if _, exists := cs.Updates[line]; !exists {
		cs.Changes = append(cs.Changes, Change{Kind: UpdateLine, Line: line, Reason: reason})
	}
	cs.Updates[line] = value
}

// AddInsertAfter records an InsertAfter change appending value to the list
// of values inserted after afterLine.
func (cs *ChangeSet) AddInsertAfter(afterLine int, reason string, value json.RawMessage) {
	if _, exists := cs.Inserts[afterLine]; !exists {
		cs.Changes = append(cs.Changes, Change{Kind: InsertAfter, Line: afterLine, Reason: reason})
	}
	cs.Inserts[afterLine] = append(cs.Inserts[afterLine], value)
}

// Empty reports whether this ChangeSet contains no edits.
func (cs *ChangeSet) Empty() bool {
	return cs == nil || len(cs.Changes) == 0
}

// Sorted returns Changes ordered by line ascending, with DeleteLine before
// UpdateLine before InsertAfter on ties (the tie-break spec.md §4.5
// requires).
func (cs *ChangeSet) Sorted() []Change {
	out := make([]Change, len(cs.Changes))
	copy(out, cs.Changes)
	kindRank := func(k ChangeKind) int {
		switch k {
		case DeleteLine:
			return 0
		case UpdateLine:
			return 1
		case InsertAfter:
			return 2
		default:
			return 3
		}
	}
	// Stable insertion sort: small N per transform, keeps the tie-break
	// rule explicit rather than leaning on sort.Slice's comparator.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			swap := a.Line > b.Line || (a.Line == b.Line && kindRank(a.Kind) > kindRank(b.Kind))
			if !swap {
				break
			}
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
