package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade issues, checks and revokes the tokens behind a session.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// GenerateRefreshToken returns the raw token. Only its hash is stored.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// ValidateAndParseRefreshToken loads userID and checks raw against the stored hash and expiry.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, raw string) (*domain.User, error)
	// RevokeAccessToken denies tokenString until its exp passes.
	RevokeAccessToken(ctx context.Context, tokenString string) error
	IsRevoked(tokenString string) bool
}

// GoogleOAuthHandlerSvcFacade covers both Google sign-in paths: the
// authorization-code redirect and a client-supplied ID token.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString returns the CSRF value carried through the redirect.
	GenerateStateString(ctx context.Context) (string, error)
	GetGoogleLoginURL(ctx context.Context, state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken checks signature and audience against the configured client ID.
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error)
}
