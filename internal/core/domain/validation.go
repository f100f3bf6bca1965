package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	MaxAmountScale       = 2
	MaxDescriptionLength = 255
	MaxPersonNameLength  = 100
	MinPasswordLength    = 6
	// bcrypt ignores bytes past 72
	MaxPasswordLength = 72
)

// MaxAmount is the largest single transaction amount accepted.
var MaxAmount = decimal.NewFromInt(1_000_000)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// ValidateAmount requires 0 < amount <= MaxAmount with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: amount must not exceed %s", apperrors.ErrValidation, MaxAmount.String())
	}
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", apperrors.ErrValidation, MaxAmountScale)
	}
	return nil
}

// ParseAmount parses and validates a decimal string such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", apperrors.ErrValidation, s)
	}
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// ReservedPersonName collides with the GET /api/people/all route.
const ReservedPersonName = "all"

// NormalizePersonName trims the name and checks it is non-empty, short enough
// and not the reserved name.
func NormalizePersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if name == ReservedPersonName {
		return "", fmt.Errorf("%w: name %q is reserved", apperrors.ErrValidation, name)
	}
	if utf8.RuneCountInString(name) > MaxPersonNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", apperrors.ErrValidation, MaxPersonNameLength)
	}
	return name, nil
}

// NormalizeDescription trims the description. Empty is allowed.
func NormalizeDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", fmt.Errorf("%w: description must be at most %d characters", apperrors.ErrValidation, MaxDescriptionLength)
	}
	return description, nil
}

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-50 characters of letters, digits, '_', '.' or '-'", apperrors.ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrValidation, MaxPasswordLength)
	}
	return nil
}
