package models

import "database/sql"

// User is a row of the users table.
type User struct {
	UserID         string         `db:"user_id"`
	Username       string         `db:"username"`
	PasswordHash   sql.NullString `db:"password_hash"` // null for OAuth-only accounts
	Name           string         `db:"name"`
	Email          sql.NullString `db:"email"`
	EmailVerified  bool           `db:"email_verified"`
	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	AuditFields

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
