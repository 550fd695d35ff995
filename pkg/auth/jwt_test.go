package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	s := NewSigner("s3cret", time.Hour)
	tok, err := s.Generate(7, "tech")
	require.NoError(t, err)

	claims, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "tech", claims.Username)
}

func TestSigner_RejectsForeignAndExpiredTokens(t *testing.T) {
	s := NewSigner("s3cret", time.Minute)
	tok, err := s.Generate(1, "tech")
	require.NoError(t, err)

	_, err = NewSigner("other", time.Minute).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalid)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSigner_NoSecret(t *testing.T) {
	s := NewSigner("", 0)
	assert.Equal(t, DefaultTTL, s.ttl)
	_, err := s.Generate(1, "x")
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = s.Parse("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
