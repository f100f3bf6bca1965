package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:           d.UserID,
		Username:         d.Username,
		PasswordHash:     nullString(d.PasswordHash),
		Name:             d.Name,
		Email:            nullString(d.Email),
		EmailVerified:    d.EmailVerified,
		AuthProvider:     string(d.AuthProvider),
		ProviderUserID:   nullString(d.ProviderUserID),
		AuditFields:      ToModelAuditFields(d.AuditFields),
		RefreshTokenHash: nullString(d.RefreshTokenHash),
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:           m.UserID,
		Username:         m.Username,
		PasswordHash:     m.PasswordHash.String,
		Name:             m.Name,
		Email:            m.Email.String,
		EmailVerified:    m.EmailVerified,
		AuthProvider:     domain.AuthProvider(m.AuthProvider),
		ProviderUserID:   m.ProviderUserID.String,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
		RefreshTokenHash: m.RefreshTokenHash.String,
	}
	if m.RefreshTokenExpiryTime.Valid {
		d.RefreshTokenExpiryTime = timePtr(m.RefreshTokenExpiryTime.Time)
	}
	return d
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
