package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(t domain.TransactionType, amount string, reversed bool) domain.Transaction {
	return domain.Transaction{
		Type:     t,
		Amount:   decimal.RequireFromString(amount),
		Reversed: reversed,
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	assert.True(t, decimal.RequireFromString("-10.5").Equal(txn(domain.TransactionTypeSend, "10.5", false).SignedAmount()))
	assert.True(t, decimal.RequireFromString("7").Equal(txn(domain.TransactionTypeReceive, "7", false).SignedAmount()))
	// reversal does not change the signed amount, only the effect
	reversed := txn(domain.TransactionTypeSend, "3", true)
	assert.True(t, decimal.RequireFromString("-3").Equal(reversed.SignedAmount()))
	assert.True(t, reversed.Effect().IsZero())
}

func TestTransaction_ReverseOnlyOnce(t *testing.T) {
	tx := txn(domain.TransactionTypeReceive, "25", false)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, tx.Reverse(at, "user-1"))
	assert.True(t, tx.Reversed)
	require.NotNil(t, tx.ReversedAt)
	assert.Equal(t, at, *tx.ReversedAt)
	assert.Equal(t, "user-1", tx.LastUpdatedBy)

	err := tx.Reverse(at.Add(time.Hour), "user-1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReversed)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, at, *tx.ReversedAt)
}

func TestComputeBalance_ExcludesReversed(t *testing.T) {
	txns := []domain.Transaction{
		txn(domain.TransactionTypeReceive, "100", false),
		txn(domain.TransactionTypeSend, "30.25", false),
		txn(domain.TransactionTypeSend, "500", true),
		txn(domain.TransactionTypeReceive, "0.75", false),
	}
	assert.Equal(t, "70.5", domain.ComputeBalance(txns).String())

	totals := domain.ComputeTotals(txns)
	assert.Equal(t, "100.75", totals.Received.String())
	assert.Equal(t, "30.25", totals.Sent.String())
	assert.Equal(t, "70.5", totals.Net().String())
	assert.Equal(t, 3, totals.Count)
}

func TestPerson_ApplyAndUnapplyMatchComputeBalance(t *testing.T) {
	p := domain.Person{Name: "Alice", Balance: decimal.Zero}
	history := []domain.Transaction{
		txn(domain.TransactionTypeSend, "40", false),
		txn(domain.TransactionTypeReceive, "15", false),
		txn(domain.TransactionTypeReceive, "5.5", false),
	}
	for _, h := range history {
		p.Apply(h)
	}
	assert.True(t, domain.ComputeBalance(history).Equal(p.Balance))

	p.Unapply(history[0])
	require.NoError(t, history[0].Reverse(time.Now(), "u"))
	assert.True(t, domain.ComputeBalance(history).Equal(p.Balance))
	assert.Equal(t, "20.5", p.Balance.String())
}

func TestParseTransactionType(t *testing.T) {
	got, err := domain.ParseTransactionType(" send ")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeSend, got)

	_, err = domain.ParseTransactionType("TRANSFER")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMonthlyBreakdown(t *testing.T) {
	jan := txn(domain.TransactionTypeReceive, "10", false)
	jan.Date = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	mar := txn(domain.TransactionTypeSend, "4", false)
	mar.Date = time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	marReversed := txn(domain.TransactionTypeSend, "99", true)
	marReversed.Date = mar.Date
	otherYear := txn(domain.TransactionTypeReceive, "1000", false)
	otherYear.Date = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

	months := domain.MonthlyBreakdown(2024, []domain.Transaction{jan, mar, marReversed, otherYear})
	require.Len(t, months, 12)
	assert.Equal(t, "2024-01", months[0].Label())
	assert.Equal(t, "10", months[0].Net().String())
	assert.Equal(t, "-4", months[2].Net().String())
	assert.Equal(t, 1, months[2].Count)
	assert.True(t, months[11].Net().IsZero())
}

func TestMonthlyBreakdown_BucketsInUTC(t *testing.T) {
	plusOne := time.FixedZone("UTC+1", 3600)
	lateDecember := txn(domain.TransactionTypeSend, "7", false)
	// 2025-12-31T23:30Z, which is already January 1st in UTC+1
	lateDecember.Date = time.Date(2026, time.January, 1, 0, 30, 0, 0, plusOne)
	from, to := domain.YearBounds(2025, time.UTC)
	require.False(t, lateDecember.Date.Before(from))
	require.True(t, lateDecember.Date.Before(to))

	months := domain.MonthlyBreakdown(2025, []domain.Transaction{lateDecember})
	assert.Equal(t, 1, months[11].Count)
	assert.Equal(t, "7", months[11].Sent.String())
	assert.Zero(t, domain.MonthlyBreakdown(2026, []domain.Transaction{lateDecember})[0].Count)
}

func TestMonthBounds(t *testing.T) {
	start, end := domain.MonthBounds(2024, time.December, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
