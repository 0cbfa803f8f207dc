// Package transform implements the ChangeSet-producing transformers (Fix,
// Strip, Remove, Trim, Compact) plus Apply and the backup policy that
// turns a ChangeSet into a new on-disk file. Grounded stylistically on
// session.Store.Update's copy-on-write discipline in the teacher
// (`copy := *st`): every transformer here builds its next state from a
// copy and never mutates the session or document it was given.
package transform

import (
	"encoding/json"
	"sort"

	"github.com/teunlao/eversession/internal/jsonlio"
)

// Document is a transcript file's line-indexed content: every physical
// line the reader yielded (so invalid-JSON lines are preserved verbatim
// for passthrough), keyed by its original 1-based line number.
type Document struct {
	Path  string
	Order []int // ascending line numbers actually present in the file
	Lines map[int]json.RawMessage
}

// LoadDocument reads path into a Document.
func LoadDocument(path string) (*Document, error) {
	lines, err := jsonlio.ReadAll(path)
	if err != nil {
		return nil, err
	}
	doc := &Document{Path: path, Lines: make(map[int]json.RawMessage, len(lines))}
	for _, l := range lines {
		doc.Order = append(doc.Order, l.Line)
		doc.Lines[l.Line] = json.RawMessage(l.Raw)
	}
	return doc, nil
}

// Values returns the document's lines in file order, ignoring line
// numbers — the flat sequence some transformers (Trim, Compact) reason
// about positionally.
func (d *Document) Values() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(d.Order))
	for _, line := range d.Order {
		out = append(out, d.Lines[line])
	}
	return out
}

// sortedInts returns a sorted copy of ns.
func sortedInts(ns []int) []int {
	out := append([]int(nil), ns...)
	sort.Ints(out)
	return out
}
