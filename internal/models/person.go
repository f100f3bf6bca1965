package models

import "github.com/shopspring/decimal"

// Person is a row of the people table.
type Person struct {
	PersonID string          `db:"person_id"`
	OwnerID  string          `db:"owner_id"`
	Name     string          `db:"name"`
	Balance  decimal.Decimal `db:"balance"`
	AuditFields
}
