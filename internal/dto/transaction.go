package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordTransactionRequest is bound from the query string of send/receive.
// Amount stays a string so it can be parsed as an exact decimal.
type RecordTransactionRequest struct {
	Name        string `form:"name" binding:"required,max=100"`
	Amount      string `form:"amount" binding:"required"`
	Description string `form:"description" binding:"max=255"`
}

// TransactionResponse is a transaction as rendered to clients.
type TransactionResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Reversed    bool            `json:"reversed"`
	ReversedAt  *time.Time      `json:"reversedAt,omitempty"`
	Person      string          `json:"person"`
}

// MutationResponse is returned by send, receive and reverse so clients can patch
// their view without refetching.
type MutationResponse struct {
	Person      PersonResponse      `json:"person"`
	Transaction TransactionResponse `json:"transaction"`
}

// ListTransactionsParams are the query parameters of the filtered listing.
type ListTransactionsParams struct {
	Person    string `form:"person"`
	Type      string `form:"type" binding:"omitempty,oneof=SEND RECEIVE send receive"`
	Query     string `form:"q"`
	From      string `form:"from"`
	To        string `form:"to"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
	PageToken string `form:"pageToken"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions  []TransactionResponse `json:"transactions"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.TransactionID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		Reversed:    t.Reversed,
		ReversedAt:  t.ReversedAt,
		Person:      t.PersonName,
	}
}

func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

func ToMutationResponse(t *domain.Transaction, p *domain.Person) MutationResponse {
	return MutationResponse{
		Person:      ToPersonResponse(p),
		Transaction: ToTransactionResponse(t),
	}
}

const dateOnlyLayout = "2006-01-02"

// ParseDateBound parses a from/to query value given as YYYY-MM-DD or RFC 3339.
// An empty value yields nil. When endOfDay is set, a bare date is moved to the
// start of the following day so that an exclusive upper bound still includes it.
func ParseDateBound(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD or RFC 3339", apperrors.ErrValidation, value)
	}
	return &t, nil
}

// TransactionCSVHeader is the header row of a transaction CSV export.
var TransactionCSVHeader = []string{"id", "date", "person", "type", "amount", "description", "reversed"}

// CSVRecord renders the transaction as one export row matching TransactionCSVHeader.
func (t TransactionResponse) CSVRecord() []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Date.UTC().Format(time.RFC3339),
		t.Person,
		t.Type,
		t.Amount.StringFixed(domain.MaxAmountScale),
		t.Description,
		strconv.FormatBool(t.Reversed),
	}
}
