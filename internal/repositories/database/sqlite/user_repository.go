package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
)

type SQLiteUserRepository struct {
	BaseRepository
}

func newSQLiteUserRepository(base BaseRepository) portsrepo.UserRepositoryFacade {
	return &SQLiteUserRepository{BaseRepository: base}
}

var _ portsrepo.UserRepositoryFacade = (*SQLiteUserRepository)(nil)

const userColumns = `user_id, username, password_hash, name, email, email_verified, auth_provider, provider_user_id,
	created_at, created_by, last_updated_at, last_updated_by, refresh_token_hash, refresh_token_expiry_time`

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		m                      models.User
		createdAt, updatedAt   string
		refreshTokenExpiryTime sql.NullString
	)
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.PasswordHash,
		&m.Name,
		&m.Email,
		&m.EmailVerified,
		&m.AuthProvider,
		&m.ProviderUserID,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
		&m.RefreshTokenHash,
		&refreshTokenExpiryTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.LastUpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if m.RefreshTokenExpiryTime, err = parseNullTime(refreshTokenExpiryTime); err != nil {
		return nil, err
	}
	u := mapping.ToDomainUser(m)
	return &u, nil
}

func (r *SQLiteUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (user_id, username, password_hash, name, email, email_verified, auth_provider,
            provider_user_id, created_at, created_by, last_updated_at, last_updated_by)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `
	_, err := r.DB.ExecContext(ctx, query,
		m.UserID,
		m.Username,
		m.PasswordHash,
		m.Name,
		m.Email,
		m.EmailVerified,
		m.AuthProvider,
		m.ProviderUserID,
		formatTime(m.CreatedAt),
		m.CreatedBy,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %q already exists", apperrors.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepository) findOne(ctx context.Context, where string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+`;`, args...))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *SQLiteUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *SQLiteUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *SQLiteUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, "auth_provider = ? AND provider_user_id = ?", string(provider), providerUserID)
}

func (r *SQLiteUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry *time.Time) error {
	var hash any
	if refreshTokenHash != "" {
		hash = refreshTokenHash
	}
	res, err := r.DB.ExecContext(ctx, `
        UPDATE users
        SET refresh_token_hash = ?, refresh_token_expiry_time = ?, last_updated_at = ?, last_updated_by = ?
        WHERE user_id = ?;`,
		hash, nullTimeArg(expiry), formatTime(time.Now()), userID, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
