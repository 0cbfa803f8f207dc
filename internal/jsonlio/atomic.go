package jsonlio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic writes data to path via a sibling temp file followed by
// os.Rename, ensuring readers never observe a partial write. Grounded on
// the teacher's gamification.Store.Save temp-file-then-rename pattern,
// generalized to an arbitrary byte payload instead of a marshaled Stats.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating parent dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".evs-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	committed = true
	return nil
}

// StringifyJSONL joins a sequence of raw JSON values with "\n" and a
// trailing newline, the inverse of what Reader consumes.
func StringifyJSONL(values []json.RawMessage) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		buf.Write(v)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
