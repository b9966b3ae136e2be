// Package auth gates the admin surface behind the configured password
// and an in-memory session token.
package auth

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSessionTTL is how long an admin session stays valid.
const DefaultSessionTTL = 12 * time.Hour

// Service verifies the admin password and tracks issued sessions.
// Sessions are in-memory only; a restart signs everyone out, which is
// acceptable for a single-admin deployment.
type Service struct {
	password string
	ttl      time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]time.Time
}

// NewService creates the auth service. A zero ttl uses the default.
func NewService(password string, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		password: password,
		ttl:      ttl,
		logger:   logger.With().Str("component", "auth").Logger(),
		sessions: make(map[string]time.Time),
	}
}

// Verify checks the password and, when valid, issues a session token.
func (s *Service) Verify(password string) (string, bool) {
	if s.password == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		s.logger.Warn().Msg("admin password rejected")
		return "", false
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = time.Now().Add(s.ttl)
	s.mu.Unlock()

	s.logger.Info().Msg("admin session issued")
	return token, true
}

// Check reports whether the token names a live session.
func (s *Service) Check(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}
