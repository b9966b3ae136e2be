package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "data/fitbook.db", cfg.Database.Path)
	assert.Equal(t, "reservations", cfg.Google.SheetName)
	assert.Equal(t, "data/backups", cfg.Database.Backup.Dir)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_FITBOOK_CAL", "cal-123")
	path := writeConfig(t, "google:\n  calendar_id: ${TEST_FITBOOK_CAL}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cal-123", cfg.Google.CalendarID)
}

func TestLoadFullDocument(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  path: /tmp/x.db
  backup:
    enabled: true
    dir: /tmp/backups
    retention_days: 7
telegram:
  bot_token: token
  chat_id: 42
redis:
  address: localhost:6379
  cache_ttl_seconds: 30
admin:
  password: secret
  session_ttl_hours: 6
monitoring:
  prometheus_enabled: true
  prometheus_port: 9100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.True(t, cfg.Database.Backup.Enabled)
	assert.Equal(t, 7, cfg.Database.Backup.RetentionDays)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, 30, cfg.Redis.CacheTTLSeconds)
	assert.Equal(t, "secret", cfg.Admin.Password)
	assert.Equal(t, 9100, cfg.Monitoring.PrometheusPort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
