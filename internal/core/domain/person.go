package domain

import "github.com/shopspring/decimal"

// Person is a counterparty in the owner's ledger. Names are unique per owner.
type Person struct {
	PersonID string          `json:"personID"`
	OwnerID  string          `json:"ownerID"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	AuditFields
}

// Apply adds a transaction's effect to the balance.
func (p *Person) Apply(t Transaction) {
	p.Balance = p.Balance.Add(t.Effect())
}

// Unapply removes a non-reversed transaction's signed amount from the balance.
// Call it before marking the transaction reversed.
func (p *Person) Unapply(t Transaction) {
	p.Balance = p.Balance.Sub(t.SignedAmount())
}
