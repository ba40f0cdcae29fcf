package export

import (
	"fmt"
	"os"
	"time"

	"chronos/internal/calendar"
)

// BackupFileName returns the conventional backup name for the given day,
// chronos_backup_<yyyy-MM-dd>.json.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("chronos_backup_%s.json", t.Format("2006-01-02"))
}

// WriteBackup serializes the envelope to path as indented JSON. The file uses
// the same shape as the persisted blob, so a backup can be inspected and
// diffed by hand.
func WriteBackup(env calendar.Envelope, path string) error {
	data, err := calendar.MarshalEnvelope(env)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// ReadBackup reads and validates a backup file. Missing events or accounts
// collections are rejected; a missing settings block falls back to defaults.
func ReadBackup(path string) (calendar.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.Envelope{}, fmt.Errorf("read backup file: %w", err)
	}
	return calendar.ParseEnvelope(data)
}
