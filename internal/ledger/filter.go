package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/money_tracker/internal/dto"
)

// Filter narrows a transaction list. Zero fields match everything.
type Filter struct {
	// Query matches the description or person name, case-insensitively.
	Query  string
	Type   string
	Person string
}

func (f Filter) Match(t dto.TransactionResponse) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, t.Type) {
		return false
	}
	if f.Person != "" && !strings.EqualFold(f.Person, t.Person) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Person), q)
	}
	return true
}

// Apply returns the matching transactions in their original order.
func (f Filter) Apply(txns []dto.TransactionResponse) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// WriteCSV writes txns in the same layout as the server export.
func WriteCSV(w io.Writer, txns []dto.TransactionResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dto.TransactionCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txns {
		if err := cw.Write(t.CSVRecord()); err != nil {
			return fmt.Errorf("write csv row %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
