package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeCursor creates an opaque page token from the last row of a page.
func EncodeCursor(c domain.TransactionCursor) string {
	return EncodeMultiFieldToken(c.Date.UTC().Format(timeFormat), strconv.FormatInt(c.TransactionID, 10))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (*domain.TransactionCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return nil, err
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}
	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return &domain.TransactionCursor{Date: date, TransactionID: id}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
