package jsonlio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicCreatesParentDirAndNoTempFileLeak(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	path := filepath.Join(dir, "out.jsonl")

	if err := WriteAtomic(path, []byte("{\"a\":1}\n")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "{\"a\":1}\n" {
		t.Errorf("got %q, want %q", got, "{\"a\":1}\n")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "out.jsonl" {
			t.Errorf("unexpected leftover entry in dir: %s", e.Name())
		}
	}
}

func TestWriteAtomicOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := WriteAtomic(path, []byte("first\n")); err != nil {
		t.Fatalf("WriteAtomic first: %v", err)
	}
	if err := WriteAtomic(path, []byte("second\n")); err != nil {
		t.Fatalf("WriteAtomic second: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "second\n" {
		t.Errorf("got %q, want %q", got, "second\n")
	}
}

func TestStringifyJSONL(t *testing.T) {
	values := []json.RawMessage{
		json.RawMessage(`{"a":1}`),
		json.RawMessage(`{"b":2}`),
	}
	got := string(StringifyJSONL(values))
	want := "{\"a\":1}\n{\"b\":2}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringifyJSONLEmpty(t *testing.T) {
	got := StringifyJSONL(nil)
	if len(got) != 0 {
		t.Errorf("got %q, want empty", got)
	}
}
