package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teunlao/eversession/internal/jsonlio"
)

// DefaultBackupRetention is how many backups PruneBackups keeps when the
// caller doesn't override it.
const DefaultBackupRetention = 10

// Backup copies path to "<path>.backup-YYYYMMDD-HHMMSS" (local time) and
// returns the backup's path. It must run before any in-place write to that
// file.
func Backup(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source for backup: %w", err)
	}
	backupPath := path + ".backup-" + now.Format("20060102-150405")
	if err := jsonlio.WriteAtomic(backupPath, data); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return backupPath, nil
}

// PruneBackups keeps the keep most recent "<path>.backup-*" files for
// path and removes the rest. Backups are ordered by their embedded
// timestamp suffix (lexicographic sort matches chronological order for
// the YYYYMMDD-HHMMSS format), not by filesystem mtime.
func PruneBackups(path string, keep int) error {
	if keep < 0 {
		keep = DefaultBackupRetention
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading backup dir: %w", err)
	}

	prefix := base + ".backup-"
	var backups []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if len(e.Name()) > len(prefix) && e.Name()[:len(prefix)] == prefix {
			backups = append(backups, e.Name())
		}
	}
	sort.Strings(backups)

	if len(backups) <= keep {
		return nil
	}
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("pruning backup %s: %w", name, err)
		}
	}
	return nil
}
