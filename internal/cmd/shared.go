// Package cmd wires EverSession's operations up as cobra subcommands.
// Grounded on amurg-ai-amurg's runtime/internal/cmd layout: one command
// per file, a NewRootCmd constructor, thin RunE bodies that delegate into
// the real packages. Exit codes follow spec.md §6: 0 success/no changes,
// 1 errors after transform (or "found differences" for diff), 2 usage
// error or missing resource.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teunlao/eversession/internal/config"
	"github.com/teunlao/eversession/internal/dialect"
	"github.com/teunlao/eversession/internal/jsonlio"
	"github.com/teunlao/eversession/internal/model"
	"github.com/teunlao/eversession/internal/parser"
	"github.com/teunlao/eversession/internal/transform"
	"github.com/teunlao/eversession/internal/validator"
)

// sessionSampleLines is how many lines dialect.Detect samples before
// classifying a transcript.
const sessionSampleLines = 20

// loadSession sniffs path's dialect, parses it with the matching parser,
// and runs the matching Validate pass, returning a dialect-tagged result
// every verb command can switch on.
func loadSession(path string) (dialect.Agent, parser.Result, []model.Issue, error) {
	report, err := dialect.Detect(path, sessionSampleLines)
	if err != nil {
		return dialect.AgentUnknown, parser.Result{}, nil, fmt.Errorf("detecting dialect of %s: %w", path, err)
	}
	switch report.Agent {
	case dialect.AgentClaude:
		res := parser.ParseClaude(path)
		if !res.OK() {
			return report.Agent, res, res.Issues, nil
		}
		return report.Agent, res, validator.ValidateClaude(res.Claude, res.Issues), nil
	case dialect.AgentCodex:
		res := parser.ParseCodex(path)
		if !res.OK() {
			return report.Agent, res, res.Issues, nil
		}
		return report.Agent, res, validator.ValidateCodex(res.Codex, res.Issues), nil
	default:
		return dialect.AgentUnknown, parser.Result{}, nil, fmt.Errorf("could not recognize the dialect of %s", path)
	}
}

const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitDiffFound = 1
)

// exitCodeError lets RunE carry a specific process exit code back to
// main without cobra's default (1 for any non-nil error).
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func usageErrorf(format string, args ...any) error {
	return &exitCodeError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func runtimeErrorf(format string, args ...any) error {
	return &exitCodeError{code: exitError, err: fmt.Errorf(format, args...)}
}

// ExitCode extracts the process exit code a cobra-returned error should
// map to, defaulting to exitError for ordinary errors.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if ce, ok := err.(*exitCodeError); ok {
		return ce.code
	}
	return exitError
}

// sessionIDFromPath derives a session id from a transcript filename,
// stripping the .jsonl extension. withSessionLock does not use it: the
// lock file is named after the full transcript path, not this id.
func sessionIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// withSessionLock runs fn while holding path's exclusive-create lock
// file ("<path>.evs.lock", beside the transcript), releasing it afterward
// regardless of outcome. Acquisition failure is returned as a runtime
// error; a lock that is still held reports "another EverSession operation
// is in progress".
func withSessionLock(cfg *config.Config, path string, fn func() error) error {
	lockPath := path + ".evs.lock"
	ok, err := jsonlio.AcquireLockWithMaxDelay(lockPath, cfg.Lock.TimeoutMs, cfg.Lock.MaxDelayMs)
	if err != nil {
		return runtimeErrorf("acquiring lock: %w", err)
	}
	if !ok {
		return runtimeErrorf("another EverSession operation is in progress on %s", path)
	}
	defer func() { _ = jsonlio.ReleaseLock(lockPath) }()
	return fn()
}

// writeChangeSet backs up path (if cs is non-empty), writes next via
// atomic rename, and prunes old backups to cfg's retention policy. A
// zero-change ChangeSet is a pure no-op (no backup, no write).
func writeChangeSet(cfg *config.Config, path string, cs *model.ChangeSet, next []json.RawMessage) (wrote bool, err error) {
	if cs.Empty() {
		return false, nil
	}
	if _, err := transform.Backup(path, time.Now()); err != nil {
		return false, fmt.Errorf("backing up %s: %w", path, err)
	}
	retention := cfg.Backup.RetentionCount
	if retention <= 0 {
		retention = transform.DefaultBackupRetention
	}
	if err := transform.PruneBackups(path, retention); err != nil {
		return false, fmt.Errorf("pruning backups for %s: %w", path, err)
	}
	if err := jsonlio.WriteAtomic(path, jsonlio.StringifyJSONL(next)); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, usageErrorf("loading config %s: %w", path, err)
	}
	cfg.ApplyEnv(config.LoadEnvConfig())
	return cfg, nil
}

// pinnedSessionID reads the first non-empty line of the EVERSESSION_PINS_PATH
// file, if set, as a pinned session id to try before falling back to
// recency-based discovery.
func pinnedSessionID() string {
	path := config.LoadEnvConfig().PinsPath
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

func printIssues(w *os.File, issues []model.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "[%s] %s: %s\n", issue.Severity, issue.Code, issue.Message)
	}
}
