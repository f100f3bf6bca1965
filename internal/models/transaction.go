package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table joined with the person's name.
type Transaction struct {
	TransactionID   int64           `db:"transaction_id"`
	OwnerID         string          `db:"owner_id"`
	PersonID        string          `db:"person_id"`
	PersonName      string          `db:"person_name"`
	TransactionType string          `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	Reversed        bool            `db:"reversed"`
	ReversedAt      sql.NullTime    `db:"reversed_at"`
	AuditFields
}
