package database

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fitbook.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("payload"), 0o644))

	backupDir := filepath.Join(dir, "backups")
	svc := NewBackupService(dbPath, BackupConfig{Enabled: true, Dir: backupDir}, zerolog.New(io.Discard))

	require.NoError(t, svc.PerformBackup())

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(backupDir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestCleanupOldBackups(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))

	old := filepath.Join(backupDir, "fitbook_20200101_000000.db")
	fresh := filepath.Join(backupDir, "fitbook_now.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o644))

	stale := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, stale, stale))

	svc := NewBackupService(filepath.Join(dir, "fitbook.db"),
		BackupConfig{Enabled: true, Dir: backupDir, RetentionDays: 14}, zerolog.New(io.Discard))
	svc.CleanupOldBackups()

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestCleanupWithoutRetentionIsNoop(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "fitbook_old.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	stale := time.Now().AddDate(0, 0, -365)
	require.NoError(t, os.Chtimes(old, stale, stale))

	svc := NewBackupService("db", BackupConfig{Enabled: true, Dir: dir}, zerolog.New(io.Discard))
	svc.CleanupOldBackups()

	_, err := os.Stat(old)
	assert.NoError(t, err)
}
