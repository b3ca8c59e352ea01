package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackupAndRestore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "finance.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("current"), 0o644))

	svc := &MaintenanceService{DBPath: dbPath, BackupDir: filepath.Join(dir, "backups")}

	backup, err := svc.Backup()
	require.NoError(t, err)
	require.Contains(t, backup, time.Now().Format("20060102"))
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, "current", string(data))

	uploaded := filepath.Join(dir, "uploaded.db")
	require.NoError(t, os.WriteFile(uploaded, []byte("restored"), 0o644))
	require.NoError(t, svc.Restore(uploaded))

	data, err = os.ReadFile(dbPath)
	require.NoError(t, err)
	require.Equal(t, "restored", string(data))

	// prior state preserved exactly once
	data, err = os.ReadFile(dbPath + ".bak")
	require.NoError(t, err)
	require.Equal(t, "current", string(data))

	require.Error(t, svc.Restore(filepath.Join(dir, "missing.db")))
}
