package pagination

import (
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	cursor := domain.TransactionCursor{
		Date:          time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		TransactionID: 42,
	}

	token := EncodeCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.Equal(t, int64(42), decoded.TransactionID)
}

func TestEncodeCursor_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	cursor := domain.TransactionCursor{Date: time.Date(2024, 1, 1, 5, 0, 0, 0, loc), TransactionID: 7}

	decoded, err := DecodeCursor(EncodeCursor(cursor))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, decoded.Date.Location())
	assert.True(t, cursor.Date.Equal(decoded.Date))
}

func TestDecodeCursorError(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeCursor(EncodeMultiFieldToken("2024-01-01T00:00:00Z"))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeCursor(EncodeMultiFieldToken("notadate", "1"))
	assert.ErrorContains(t, err, "date parse")

	_, err = DecodeCursor(EncodeMultiFieldToken("2024-01-01T00:00:00Z", "x"))
	assert.ErrorContains(t, err, "id parse")
}
