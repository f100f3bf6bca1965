package mapping

import (
	"database/sql"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		OwnerID:         d.OwnerID,
		PersonID:        d.PersonID,
		PersonName:      d.PersonName,
		TransactionType: string(d.Type),
		Amount:          d.Amount,
		Description:     d.Description,
		TransactionDate: d.Date,
		Reversed:        d.Reversed,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.ReversedAt != nil {
		m.ReversedAt = sql.NullTime{Time: *d.ReversedAt, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
// Timestamps come back in UTC whatever zone the driver returned them in.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		OwnerID:       m.OwnerID,
		PersonID:      m.PersonID,
		PersonName:    m.PersonName,
		Type:          domain.TransactionType(m.TransactionType),
		Amount:        m.Amount,
		Description:   m.Description,
		Date:          m.TransactionDate.UTC(),
		Reversed:      m.Reversed,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.ReversedAt.Valid {
		d.ReversedAt = timePtr(m.ReversedAt.Time.UTC())
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
