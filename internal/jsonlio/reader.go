// Package jsonlio provides the low-level building blocks every other
// package builds on: a tolerant line-at-a-time JSONL reader, an
// atomic-rewrite writer, an exclusive-create file lock, and a file
// stability wait. None of these types know about Claude or Codex shapes —
// they operate purely on bytes and json.RawMessage.
package jsonlio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/teunlao/eversession/internal/model"
)

// Reader yields one model.JsonlLine per call to Next, tolerant of
// malformed JSON and blank lines. Grounded on the teacher's
// ParseSessionJSONL loop in monitor/jsonl.go: lines are read up to each
// newline, a trailing line without a newline is still yielded as the final
// line, and a parse failure never aborts the scan — it's reported on the
// line and reading continues.
type Reader struct {
	br     *bufio.Reader
	f      *os.File
	lineNo int
	err    error
	done   bool
}

// NewReader opens path for a fresh restartable scan from the start of the
// file.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{br: bufio.NewReader(f), f: f}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

// Next returns the next line and true, or a zero value and false once the
// file is exhausted. Empty/whitespace-only lines are skipped silently (not
// surfaced as JsonlLine values at all), matching read_jsonl's contract.
func (r *Reader) Next() (model.JsonlLine, bool) {
	for {
		if r.done {
			return model.JsonlLine{}, false
		}
		raw, err := r.br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			r.err = err
			r.done = true
			return model.JsonlLine{}, false
		}
		if len(raw) == 0 {
			r.done = true
			return model.JsonlLine{}, false
		}
		if err == io.EOF {
			// Trailing data with no newline: still consume it as the final
			// line (the file is done being read regardless), but an
			// in-progress writer's partial last line is handled by callers
			// via WaitStable before reading, not here.
			r.done = true
		}
		r.lineNo++
		trimmed := bytes.TrimRight(raw, "\r\n")
		if len(bytes.TrimSpace(trimmed)) == 0 {
			if r.done {
				return model.JsonlLine{}, false
			}
			continue
		}
		line := model.JsonlLine{Line: r.lineNo, Raw: string(trimmed)}
		var v json.RawMessage
		if jerr := json.Unmarshal(trimmed, &v); jerr != nil {
			line.Err = jerr
		} else {
			line.Value = v
		}
		return line, true
	}
}

// Err returns a non-nil error only when the underlying read itself failed
// (not when individual lines failed to parse as JSON).
func (r *Reader) Err() error {
	return r.err
}

// ReadAll drains a Reader into a slice, for callers that want the whole
// file rather than a pull loop.
func ReadAll(path string) ([]model.JsonlLine, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var out []model.JsonlLine
	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		out = append(out, line)
	}
	return out, r.Err()
}
