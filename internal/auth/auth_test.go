package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("s3cret", 72*time.Hour)
	raw, err := tokens.Issue(core.User{ID: "UI-10001", Email: "ada@example.com", Role: core.RoleAdmin})
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "UI-10001", claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestTokensRejects(t *testing.T) {
	issued := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tokens := NewTokens("s3cret", time.Hour)
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue(core.User{ID: "UI-10001", Role: core.RoleRegular})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewTokens("s3cret", time.Hour)
		later.now = func() time.Time { return issued.Add(2 * time.Hour) }
		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
		assert.Equal(t, "Token expired", core.Message(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other", time.Hour)
		other.now = tokens.now
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "UI-1", Issuer: issuer}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(unsigned)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestPasswords(t *testing.T) {
	p := NewPasswords(4)
	hash, err := p.Hash("Secr3t!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pass", hash)

	ok, err := p.Match(hash, "Secr3t!pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.Match("not-a-hash", "x")
	assert.Error(t, err)
}
