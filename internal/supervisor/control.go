// Package supervisor runs a long-lived supervisor over a host agent child
// process, intermediating "reload" requests via a filesystem control
// channel (spec.md §4.8). Grounded on Monitor.Start's ticker-driven poll
// loop and SetConfig/SetSources hot-swap pattern (monitor/monitor.go,
// monitor/config_reload_test.go): the supervisor's "observe control
// events, decide, act" loop is the same shape, with a child-process state
// machine standing in for the session map.
package supervisor

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/teunlao/eversession/internal/jsonlio"
)

// Handshake is written by the child (or a wrapper around it) describing
// its runtime identity, read by the supervisor to compute resume args.
type Handshake struct {
	RunID          string `json:"run_id"`
	ThreadID       string `json:"thread_id,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Cwd            string `json:"cwd"`
	Ts             string `json:"ts"`
}

// ControlLine is one line appended to control.jsonl by a client.
type ControlLine struct {
	Ts     string `json:"ts"`
	Cmd    string `json:"cmd"`
	Reason string `json:"reason,omitempty"`
}

func handshakePath(controlDir string) string  { return filepath.Join(controlDir, "handshake.json") }
func controlLogPath(controlDir string) string { return filepath.Join(controlDir, "control.jsonl") }
func pendingReloadPath(controlDir string) string {
	return filepath.Join(controlDir, "pending-reload.json")
}

// WriteHandshake atomically writes h to controlDir/handshake.json.
func WriteHandshake(controlDir string, h Handshake) error {
	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return jsonlio.WriteAtomic(handshakePath(controlDir), data)
}

// ReadHandshake reads the current handshake. A missing or unparseable
// file is non-fatal (spec.md §7 SupervisorError): it returns ok=false so
// the caller falls back to initial_args.
func ReadHandshake(controlDir string) (h Handshake, ok bool) {
	data, err := os.ReadFile(handshakePath(controlDir))
	if err != nil {
		return Handshake{}, false
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return Handshake{}, false
	}
	return h, true
}

// AppendControlLine appends a reload command to control.jsonl.
func AppendControlLine(controlDir string, line ControlLine) error {
	if err := os.MkdirAll(controlDir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(controlLogPath(controlDir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}

// TriggerPendingReload drops a pending-reload.json marker for automated
// paths (e.g. a successful auto-compact) to force the next tick to reload.
func TriggerPendingReload(controlDir string, reason string) error {
	data, err := json.Marshal(struct {
		Reason string `json:"reason"`
	}{Reason: reason})
	if err != nil {
		return err
	}
	return jsonlio.WriteAtomic(pendingReloadPath(controlDir), data)
}

// consumePendingReload reports whether pending-reload.json exists, and
// removes it if so — it's a one-shot trigger.
func consumePendingReload(controlDir string) bool {
	path := pendingReloadPath(controlDir)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	_ = os.Remove(path)
	return true
}

// controlCursor tracks how many lines of control.jsonl have already been
// acted on, so each line is applied at most once per supervisor lifetime
// (spec.md §4.8: "a monotonically advancing cursor is kept in memory").
type controlCursor struct {
	applied int
}

// pollNewReloads reads control.jsonl and returns any reload commands past
// the cursor, advancing it. A read error or missing file yields no new
// commands.
func (c *controlCursor) pollNewReloads(controlDir string) []ControlLine {
	f, err := os.Open(controlLogPath(controlDir))
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []ControlLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
	idx := 0
	for scanner.Scan() {
		idx++
		if idx <= c.applied {
			continue
		}
		var line ControlLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if line.Cmd == "reload" {
			lines = append(lines, line)
		}
	}
	c.applied = idx
	return lines
}
