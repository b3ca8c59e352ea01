package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// MaintenanceService handles whole-file backup and restore of the store.
// These operate on the database file directly, so Restore must only run
// after every live connection has been closed.
type MaintenanceService struct {
	DBPath    string
	BackupDir string
}

// Backup copies the current store into the backup directory, named with
// today's date. Returns the path written.
func (s *MaintenanceService) Backup() (string, error) {
	if err := os.MkdirAll(s.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}
	name := fmt.Sprintf("finance_backup_%s.db", time.Now().Format("20060102"))
	dst := filepath.Join(s.BackupDir, name)
	if err := copyFile(s.DBPath, dst); err != nil {
		return "", fmt.Errorf("backing up store: %w", err)
	}
	return dst, nil
}

// Restore overwrites the local store with the file at src. The previous
// store is kept as a single .bak copy next to it. The caller must have
// closed the database handle before calling this.
func (s *MaintenanceService) Restore(src string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("restore source: %w", err)
	}
	if _, err := os.Stat(s.DBPath); err == nil {
		if err := copyFile(s.DBPath, s.DBPath+".bak"); err != nil {
			return fmt.Errorf("preserving current store: %w", err)
		}
	}
	if err := copyFile(src, s.DBPath); err != nil {
		return fmt.Errorf("restoring store: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
