package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user linked to an external identity provider.
	FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate if the username is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores (or clears, when hash is empty) the user's refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
