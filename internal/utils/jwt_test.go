package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := NewToken("access-secret", 42, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	userID, err := ParseUserID("access-secret", tok.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewToken("access-secret", 42, 15*time.Minute)
	require.NoError(t, err)

	_, err = ParseUserID("refresh-secret", tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := NewToken("access-secret", 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseUserID("access-secret", tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := ParseUserID("access-secret", raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	tok, err := NewToken("access-secret", 42, 15*time.Minute)
	require.NoError(t, err)

	raw := tok.Value[:len(tok.Value)-2] + "xx"
	_, err = ParseUserID("access-secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreUnique(t *testing.T) {
	// Two tokens minted back to back inside the same second must differ so
	// a second login always replaces the cached refresh token.
	a, err := NewToken("s", 1, time.Hour)
	require.NoError(t, err)
	b, err := NewToken("s", 1, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
}
