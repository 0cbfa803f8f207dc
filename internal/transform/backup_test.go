package transform

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupCopiesContentToTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(path, []byte("{\"a\":1}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	backupPath, err := Backup(path, now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	wantSuffix := "session.jsonl.backup-20260102-030405"
	if filepath.Base(backupPath) != filepath.Base(wantSuffix) {
		t.Errorf("backup path = %q, want suffix %q", backupPath, wantSuffix)
	}
	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("ReadFile backup: %v", err)
	}
	if string(got) != "{\"a\":1}\n" {
		t.Errorf("backup content = %q, want original content", got)
	}
}

func TestPruneBackupsKeepsOnlyMostRecent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var backups []string
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		bp, err := Backup(path, base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("Backup[%d]: %v", i, err)
		}
		backups = append(backups, bp)
	}

	if err := PruneBackups(path, 2); err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}

	for i, bp := range backups {
		_, err := os.Stat(bp)
		exists := err == nil
		wantExists := i >= 3 // keep the 2 most recent: index 3 and 4
		if exists != wantExists {
			t.Errorf("backup[%d] exists=%v, want %v", i, exists, wantExists)
		}
	}
}

func TestPruneBackupsNoopWhenUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Backup(path, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := PruneBackups(path, DefaultBackupRetention); err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 { // original + 1 backup
		t.Errorf("got %d dir entries, want 2", len(entries))
	}
}
