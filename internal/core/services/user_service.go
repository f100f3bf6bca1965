package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils"
	"github.com/google/uuid"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     username,
		PasswordHash: hash,
		Name:         username,
		Email:        strings.TrimSpace(req.Email),
		AuthProvider: domain.ProviderLocal,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		}
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", userID))
	return &user, nil
}

var usernameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// oauthUsername derives a stable, valid username for an external identity.
func oauthUsername(provider domain.AuthProvider, providerUserID string) string {
	name := string(provider) + "_" + usernameUnsafe.ReplaceAllString(providerUserID, "")
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}

func (s *userService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	if providerUserID == "" {
		return nil, fmt.Errorf("%w: provider user ID is required", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindUserByProviderDetails(ctx, provider, providerUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up OAuth user", slog.String("provider", string(provider)))
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	userID := uuid.NewString()
	user := domain.User{
		UserID:         userID,
		Username:       oauthUsername(provider, providerUserID),
		Name:           name,
		Email:          email,
		EmailVerified:  emailVerified,
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save OAuth user", slog.String("provider", string(provider)))
		return nil, err
	}

	s.LogInfo(ctx, "OAuth user created", slog.String("user_id", userID), slog.String("provider", string(provider)))
	return &user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshToken string, expiry time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, utils.HashToken(refreshToken), &expiry); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, "", nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to load user for login")
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogDebug(ctx, "Password mismatch", slog.String("user_id", user.UserID))
		return nil, errInvalidCredentials
	}
	return user, nil
}
