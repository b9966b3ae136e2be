package auth

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	svc := NewService("secret", time.Hour, zerolog.New(io.Discard))

	token, ok := svc.Verify("secret")
	require.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok = svc.Verify("wrong")
	assert.False(t, ok)

	_, ok = svc.Verify("")
	assert.False(t, ok)
}

func TestVerifyWithoutConfiguredPassword(t *testing.T) {
	svc := NewService("", time.Hour, zerolog.New(io.Discard))

	_, ok := svc.Verify("")
	assert.False(t, ok)
}

func TestCheck(t *testing.T) {
	svc := NewService("secret", time.Hour, zerolog.New(io.Discard))

	token, ok := svc.Verify("secret")
	require.True(t, ok)

	assert.True(t, svc.Check(token))
	assert.False(t, svc.Check("unknown-token"))
	assert.False(t, svc.Check(""))
}

func TestSessionExpiry(t *testing.T) {
	svc := NewService("secret", time.Millisecond, zerolog.New(io.Discard))

	token, ok := svc.Verify("secret")
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	assert.False(t, svc.Check(token))

	// The expired session was purged, not just rejected.
	svc.mu.Lock()
	_, exists := svc.sessions[token]
	svc.mu.Unlock()
	assert.False(t, exists)
}

func TestEachVerifyIssuesDistinctToken(t *testing.T) {
	svc := NewService("secret", time.Hour, zerolog.New(io.Discard))

	a, _ := svc.Verify("secret")
	b, _ := svc.Verify("secret")

	assert.NotEqual(t, a, b)
	assert.True(t, svc.Check(a))
	assert.True(t, svc.Check(b))
}
