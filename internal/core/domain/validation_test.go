package domain_test

import (
	"strings"
	"testing"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.50", want: "12.5"},
		{in: " 1 ", want: "1"},
		{in: "1000000", want: "1000000"},
		{in: "0.01", want: "0.01"},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1000000.01", wantErr: true},
		{in: "1.234", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNormalizePersonName(t *testing.T) {
	got, err := domain.NormalizePersonName("  Bob ")
	assert.NoError(t, err)
	assert.Equal(t, "Bob", got)

	_, err = domain.NormalizePersonName("   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NormalizePersonName(strings.Repeat("x", domain.MaxPersonNameLength+1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NormalizePersonName(" all ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err = domain.NormalizePersonName("All")
	assert.NoError(t, err)
	assert.Equal(t, "All", got)
}

func TestNormalizeDescription(t *testing.T) {
	got, err := domain.NormalizeDescription("")
	assert.NoError(t, err)
	assert.Empty(t, got)

	_, err = domain.NormalizeDescription(strings.Repeat("d", domain.MaxDescriptionLength+1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateUsernameAndPassword(t *testing.T) {
	assert.NoError(t, domain.ValidateUsername("jane_doe.1"))
	assert.Error(t, domain.ValidateUsername("jd"))
	assert.Error(t, domain.ValidateUsername("jane doe"))

	assert.NoError(t, domain.ValidatePassword("secret"))
	assert.Error(t, domain.ValidatePassword("short"))
	assert.Error(t, domain.ValidatePassword(strings.Repeat("p", 73)))
}
