package transform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/teunlao/eversession/internal/model"
)

// ParseLineSpec parses a comma-separated list of integers ≥ 1 and ranges
// "a-b" (a ≤ b), tolerating surrounding whitespace, into a sorted unique
// set of line numbers.
func ParseLineSpec(spec string) ([]int, error) {
	set := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if dash := strings.Index(part, "-"); dash > 0 {
			loStr := strings.TrimSpace(part[:dash])
			hiStr := strings.TrimSpace(part[dash+1:])
			lo, err := strconv.Atoi(loStr)
			if err != nil || lo < 1 {
				return nil, fmt.Errorf("invalid range start %q in %q", loStr, part)
			}
			hi, err := strconv.Atoi(hiStr)
			if err != nil || hi < lo {
				return nil, fmt.Errorf("invalid range end %q in %q", hiStr, part)
			}
			for i := lo; i <= hi; i++ {
				set[i] = true
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid line number %q", part)
		}
		set[n] = true
	}

	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// RemoveClaude deletes the given lines from s, validating that each one
// corresponds to a real session entry (not file metadata that was never a
// recognized entry), and relinks the children of any deleted entry onto
// that entry's own parent, exactly like the API-error-message fix
// behavior.
func RemoveClaude(doc *Document, s *model.ClaudeSession, lines []int) ([]json.RawMessage, *model.ChangeSet, error) {
	cs := model.NewChangeSet()
	deleted := make(map[int]bool)

	byLine := make(map[int]*model.ClaudeEntry, len(s.Entries))
	for _, e := range s.Entries {
		byLine[e.Line] = e
	}

	for _, line := range lines {
		e, ok := byLine[line]
		if !ok {
			return nil, nil, fmt.Errorf("line %d is not a recognized session entry", line)
		}
		cs.AddDelete(line, "remove")
		deleted[line] = true
		if e.UUID != "" {
			if err := relinkChildren(s, e, cs, deleted, "remove"); err != nil {
				return nil, nil, err
			}
		}
	}

	return Apply(doc, cs), cs, nil
}
