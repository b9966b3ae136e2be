package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"fitbook/internal/apperr"
)

const (
	settingsFile = "settings.json"
	backupFile   = "settings.backup.json"
	lockFile     = "settings.lock"
)

// Store persists the settings document under a data directory.
// Writes are serialized by an exclusive advisory lock file; the store is
// single-instance, so a leftover lock from a crashed process is cleared
// once at startup.
type Store struct {
	path       string
	backupPath string
	lockPath   string
	logger     zerolog.Logger
}

// NewStore creates a store rooted at dataDir, creating the directory if
// needed and clearing any stale lock left by a previous process.
func NewStore(dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		path:       filepath.Join(dataDir, settingsFile),
		backupPath: filepath.Join(dataDir, backupFile),
		lockPath:   filepath.Join(dataDir, lockFile),
		logger:     logger.With().Str("component", "settings").Logger(),
	}
	s.clearStaleLock()
	return s, nil
}

func (s *Store) clearStaleLock() {
	if err := os.Remove(s.lockPath); err == nil {
		s.logger.Warn().Str("lock", s.lockPath).Msg("removed stale settings lock")
	}
}

// Load reads the settings document. A missing file is seeded with the
// default document; a corrupt file is re-seeded rather than failing
// permanently.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.seed()
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Error().Err(err).Msg("settings file corrupt, re-seeding defaults")
		return s.seed()
	}
	return &cfg, nil
}

func (s *Store) seed() (*Settings, error) {
	cfg := Default()
	if err := s.write(cfg); err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	s.logger.Info().Str("path", s.path).Msg("seeded default settings")
	return cfg, nil
}

// Save validates and persists a full replacement document. It acquires
// the advisory lock non-blocking and returns apperr.ErrBusy when the
// lock is already held; the lock is released on every exit path.
// The previous document is snapshotted to the backup file first; a
// failed backup does not block the write.
func (s *Store) Save(cfg *Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.acquireLock(); err != nil {
		return err
	}
	defer s.releaseLock()

	s.backupCurrent()

	if err := s.write(cfg); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	s.logger.Info().Msg("settings saved")
	return nil
}

// acquireLock creates the lock file exclusively. It fails fast instead
// of queuing; callers are expected to retry.
func (s *Store) acquireLock() error {
	f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return apperr.ErrBusy
		}
		return fmt.Errorf("acquire settings lock: %w", err)
	}
	return f.Close()
}

func (s *Store) releaseLock() {
	if err := os.Remove(s.lockPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error().Err(err).Msg("failed to release settings lock")
	}
}

func (s *Store) backupCurrent() {
	src, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error().Err(err).Msg("settings backup failed")
		}
		return
	}
	defer src.Close()

	dst, err := os.Create(s.backupPath)
	if err != nil {
		s.logger.Error().Err(err).Msg("settings backup failed")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.logger.Error().Err(err).Msg("settings backup failed")
	}
}

// write persists the document atomically via a temp file and rename so
// a crash mid-write never leaves a truncated document behind.
func (s *Store) write(cfg *Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), settingsFile+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
