package jsonlio

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WaitStable blocks until path's (mtime, size) have been unchanged for a
// continuous windowMs, or returns false once timeoutMs elapses. A missing
// file is treated as "not stable yet", never as an error, matching the
// spec's contract. fsnotify watches the parent directory as a fast-path
// wakeup between polls (grounded on the other_examples claude-jsonl-reader
// Tail/tailWithWatcher pattern: try fsnotify, fall back to plain polling
// when the watcher can't be set up).
func WaitStable(path string, timeoutMs, windowMs, pollMs int) bool {
	deadline := time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	poll := time.Duration(pollMs) * time.Millisecond
	window := time.Duration(windowMs) * time.Millisecond

	watcher, werr := fsnotify.NewWatcher()
	if werr == nil {
		defer watcher.Close()
		if aerr := watcher.Add(filepath.Dir(path)); aerr != nil {
			watcher.Close()
			watcher = nil
		}
	} else {
		watcher = nil
	}

	var lastMtime time.Time
	var lastSize int64
	var stableSince time.Time
	haveBaseline := false

	checkOnce := func() (stableNow bool) {
		info, err := os.Stat(path)
		if err != nil {
			haveBaseline = false
			return false
		}
		mtime, size := info.ModTime(), info.Size()
		if !haveBaseline || !mtime.Equal(lastMtime) || size != lastSize {
			lastMtime, lastSize = mtime, size
			stableSince = time.Now()
			haveBaseline = true
			return false
		}
		return time.Since(stableSince) >= window
	}

	for {
		if checkOnce() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}

		remaining := time.Until(deadline)
		wait := poll
		if remaining < wait {
			wait = remaining
		}
		if wait <= 0 {
			return false
		}

		if watcher != nil {
			timer := time.NewTimer(wait)
			select {
			case <-watcher.Events:
				timer.Stop()
			case <-watcher.Errors:
				timer.Stop()
			case <-timer.C:
			}
		} else {
			time.Sleep(wait)
		}
	}
}
