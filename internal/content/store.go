// Package content persists the admin-managed landing page content as a
// flat JSON document.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"fitbook/internal/apperr"
)

const contentFile = "intro-content.json"

// Store reads and writes the intro-content document.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a content store under dataDir.
func NewStore(dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		path:   filepath.Join(dataDir, contentFile),
		logger: logger.With().Str("component", "content").Logger(),
	}, nil
}

// Load returns the stored document, or an empty object when none exists.
func (s *Store) Load() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("content file corrupt")
	}
	return data, nil
}

// Save replaces the document. The payload must be valid JSON.
func (s *Store) Save(doc json.RawMessage) error {
	if !json.Valid(doc) {
		return apperr.Validation("잘못된 컨텐츠 형식입니다.")
	}

	var pretty interface{}
	if err := json.Unmarshal(doc, &pretty); err != nil {
		return apperr.Validation("잘못된 컨텐츠 형식입니다.")
	}
	data, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	s.logger.Info().Msg("intro content saved")
	return nil
}
