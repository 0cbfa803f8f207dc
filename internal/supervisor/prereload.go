package supervisor

import (
	"time"

	"github.com/teunlao/eversession/internal/evslog"
	"github.com/teunlao/eversession/internal/jsonlio"
	"github.com/teunlao/eversession/internal/parser"
	"github.com/teunlao/eversession/internal/transform"
)

// FixBeforeReload runs the default Fix pass against transcriptPath,
// writes the result with a backup when it changed anything, and appends
// a pre_reload_fix event to the session's log. A zero-change pass writes
// nothing (spec.md §4.8). The caller is expected to have already waited
// for file stability (spec.md §5).
func FixBeforeReload(transcriptPath, evsLogDir, sessionID string, backupRetention int) error {
	res := parser.ParseClaude(transcriptPath)
	if !res.OK() {
		// Non-Claude or unparseable: nothing to fix.
		return nil
	}

	doc, err := transform.LoadDocument(transcriptPath)
	if err != nil {
		return err
	}

	next, cs, err := transform.Fix(doc, res.Claude, transform.DefaultPreReloadFixOptions())
	if err != nil {
		return err
	}

	logger := evslog.New(evsLogDir, sessionID)
	if cs.Empty() {
		return logger.Append(evslog.EventPreReloadFix, map[string]any{
			"transcript_path": transcriptPath,
			"changed":         false,
		})
	}

	if _, err := transform.Backup(transcriptPath, time.Now()); err != nil {
		return err
	}
	if err := backupRetentionPrune(transcriptPath, backupRetention); err != nil {
		return err
	}

	if err := jsonlio.WriteAtomic(transcriptPath, jsonlio.StringifyJSONL(next)); err != nil {
		return err
	}

	return logger.Append(evslog.EventPreReloadFix, map[string]any{
		"transcript_path": transcriptPath,
		"changed":         true,
		"lines_changed":   len(cs.Sorted()),
	})
}

func backupRetentionPrune(path string, retention int) error {
	if retention <= 0 {
		retention = transform.DefaultBackupRetention
	}
	return transform.PruneBackups(path, retention)
}
