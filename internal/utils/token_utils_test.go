package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestGenerateAndParseJWT(t *testing.T) {
	token, expiresAt, err := GenerateJWT("user-1", testSecret, time.Hour, "mt-test")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "mt-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = ParseAndValidateJWT(token, "some-other-secret-that-is-long-enough")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, _, err := GenerateJWT("user-1", testSecret, -time.Minute, "mt-test")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenExpiry(t *testing.T) {
	token, expiresAt, err := GenerateJWT("user-1", testSecret, 10*time.Minute, "mt-test")
	require.NoError(t, err)

	exp, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.Equal(t, expiresAt.Unix(), exp.Unix())

	_, err = TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshCookieRoundTrip(t *testing.T) {
	raw, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	userID, token, err := DecodeRefreshCookie(EncodeRefreshCookie("4f1c", raw))
	require.NoError(t, err)
	assert.Equal(t, "4f1c", userID)
	assert.Equal(t, raw, token)
	assert.True(t, CompareRefreshTokenHash(raw, HashToken(raw)))
	assert.False(t, CompareRefreshTokenHash("other", HashToken(raw)))

	_, _, err = DecodeRefreshCookie("no-separator")
	assert.Error(t, err)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestTokenDenylist(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewTokenDenylist()
	d.now = func() time.Time { return now }

	d.Revoke("tok-a", now.Add(time.Minute))
	assert.True(t, d.IsRevoked("tok-a"))
	assert.False(t, d.IsRevoked("tok-b"))

	now = now.Add(2 * time.Minute)
	assert.False(t, d.IsRevoked("tok-a"))

	// expired entries are dropped on the next write
	d.Revoke("tok-b", now.Add(time.Minute))
	assert.Equal(t, 1, d.Len())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
	assert.False(t, CheckPasswordHash("secret1", ""))
}
