package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/teunlao/eversession/internal/fixtures"
)

func TestExitCodeMapping(t *testing.T) {
	if got := ExitCode(nil); got != exitOK {
		t.Errorf("ExitCode(nil) = %d, want %d", got, exitOK)
	}
	if got := ExitCode(usageErrorf("bad flag")); got != exitUsage {
		t.Errorf("ExitCode(usage) = %d, want %d", got, exitUsage)
	}
	if got := ExitCode(runtimeErrorf("boom")); got != exitError {
		t.Errorf("ExitCode(runtime) = %d, want %d", got, exitError)
	}
	if got := ExitCode(errors.New("plain")); got != exitError {
		t.Errorf("ExitCode(plain) = %d, want %d", got, exitError)
	}
}

func TestSessionIDFromPath(t *testing.T) {
	got := sessionIDFromPath("/home/user/.claude/projects/x/abc-123.jsonl")
	if got != "abc-123" {
		t.Errorf("got %q, want %q", got, "abc-123")
	}
}

func TestNewRootCmdRegistersEveryVerb(t *testing.T) {
	root := NewRootCmd("test")
	want := []string{"fix", "validate", "trim", "compact", "remove", "strip", "discover", "supervise", "export", "diff", "analyze", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected root to register a %q subcommand, err=%v", name, err)
		}
	}
}

func TestRunValidateReportsNoIssuesOnCleanTranscript(t *testing.T) {
	content := fixtures.NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(fixtures.Text("hi")).
		Build()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"validate", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRunValidateSurfacesBrokenParentIssue(t *testing.T) {
	content := fixtures.NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(fixtures.Text("hi")).WithBrokenParent().
		Build()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	root := NewRootCmd("test")
	root.SetArgs([]string{"validate", path})
	err := root.Execute()
	if err == nil {
		t.Fatalf("expected validate to report an error for a broken parent link")
	}
	if ExitCode(err) != exitError {
		t.Errorf("got exit code %d, want %d", ExitCode(err), exitError)
	}
}

func TestRunFixAppliesRepairsAndWritesBackup(t *testing.T) {
	content := fixtures.NewClaudeSession().
		UserMessage("hello").
		AssistantMessage(fixtures.Text("hi")).WithBrokenParent().
		Build()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	root := NewRootCmd("test")
	root.SetArgs([]string{"fix", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("fix: %v", err)
	}

	matches, err := filepath.Glob(path + ".backup-*")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected exactly one backup file, got %d", len(matches))
	}
}

func TestRunSuperviseRequiresBinArgumentOrEnvFallback(t *testing.T) {
	root := NewRootCmd("test")
	root.SetArgs([]string{"supervise"})

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected an error when no <bin> argument and no EVERSESSION_AGENT_BIN are set")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("got exit code %d, want %d (usage error)", ExitCode(err), exitUsage)
	}
}

func TestRunDiscoverReportsUsageErrorWhenNothingFound(t *testing.T) {
	root := NewRootCmd("test")
	empty := t.TempDir()
	root.SetArgs([]string{"discover", "--cwd", empty, "--agent", "claude", "--config", filepath.Join(empty, "missing-config.yaml")})

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected an error when nothing matches")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("got exit code %d, want %d (usage error)", ExitCode(err), exitUsage)
	}
}
