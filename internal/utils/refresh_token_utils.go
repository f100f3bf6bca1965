package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const refreshCookieSeparator = ":"

// HashToken returns the hex SHA256 of a token. Refresh tokens and revoked access
// tokens are only ever stored hashed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash compares a plain refresh token with its stored SHA256 hash.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1
}

// EncodeRefreshCookie packs the user ID next to the raw refresh token.
func EncodeRefreshCookie(userID, refreshToken string) string {
	return userID + refreshCookieSeparator + refreshToken
}

// DecodeRefreshCookie splits a value produced by EncodeRefreshCookie.
func DecodeRefreshCookie(value string) (userID string, refreshToken string, err error) {
	userID, refreshToken, ok := strings.Cut(value, refreshCookieSeparator)
	if !ok || userID == "" || refreshToken == "" {
		return "", "", fmt.Errorf("malformed refresh token cookie")
	}
	return userID, refreshToken, nil
}

// GenerateSecureRandomString returns lengthInBytes random bytes, hex encoded.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
