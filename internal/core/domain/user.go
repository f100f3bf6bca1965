package domain

import "time"

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User is an account holder. Every person and transaction belongs to exactly one user.
type User struct {
	UserID         string       `json:"userID"`
	Username       string       `json:"username"`
	PasswordHash   string       `json:"-"`
	Name           string       `json:"name"`
	Email          string       `json:"email,omitempty"`
	EmailVerified  bool         `json:"emailVerified"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"`
	AuditFields

	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo is the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
