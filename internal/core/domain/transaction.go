package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of money relative to the account holder.
type TransactionType string

const (
	// TransactionTypeSend is money given to a person.
	TransactionTypeSend TransactionType = "SEND"
	// TransactionTypeReceive is money received from a person.
	TransactionTypeReceive TransactionType = "RECEIVE"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeSend || t == TransactionTypeReceive
}

// ParseTransactionType accepts SEND or RECEIVE in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// Transaction records money moving between the account holder and one person.
// Transactions are never deleted individually; they are reversed instead.
type Transaction struct {
	TransactionID int64           `json:"transactionID"`
	OwnerID       string          `json:"ownerID"`
	PersonID      string          `json:"personID"`
	PersonName    string          `json:"personName"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Reversed      bool            `json:"reversed"`
	ReversedAt    *time.Time      `json:"reversedAt,omitempty"`
	AuditFields
}

// SignedAmount is +amount for RECEIVE and -amount for SEND, regardless of reversal.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeSend {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Effect is the transaction's contribution to the balance: zero once reversed.
func (t Transaction) Effect() decimal.Decimal {
	if t.Reversed {
		return decimal.Zero
	}
	return t.SignedAmount()
}

// Reverse marks the transaction reversed. A transaction can be reversed once.
func (t *Transaction) Reverse(at time.Time, by string) error {
	if t.Reversed {
		return apperrors.ErrAlreadyReversed
	}
	t.Reversed = true
	t.ReversedAt = &at
	t.LastUpdatedAt = at
	t.LastUpdatedBy = by
	return nil
}

// TransactionCursor is the keyset position used for paging, ordered by (date DESC, id DESC).
type TransactionCursor struct {
	Date          time.Time
	TransactionID int64
}

// TransactionFilter narrows a transaction listing. Zero values mean "no constraint";
// Limit 0 returns everything.
type TransactionFilter struct {
	PersonName string
	Type       TransactionType
	Query      string
	From       *time.Time
	To         *time.Time
	After      *TransactionCursor
	Limit      int
}
