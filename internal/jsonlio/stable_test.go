package jsonlio

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitStableMissingFileTimesOutFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.jsonl")
	if WaitStable(path, 150, 50, 20) {
		t.Errorf("expected WaitStable to return false for a file that never appears")
	}
}

func TestWaitStableReturnsTrueOnceUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte("{\"a\":1}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !WaitStable(path, 2000, 60, 20) {
		t.Errorf("expected WaitStable to report stable once mtime/size stop changing")
	}
}

func TestWaitStableTrueOnceWritesStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte("{\"a\":1}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			time.Sleep(20 * time.Millisecond)
			f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return
			}
			f.WriteString("{\"b\":2}\n")
			f.Close()
		}
	}()
	<-done

	// A short window relative to the writes above: by the time the writes
	// finish the file should be observed as stable well within the timeout.
	if !WaitStable(path, 2000, 60, 20) {
		t.Errorf("expected WaitStable to eventually settle once writes stop")
	}
}
