package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	// FindTransactionByID returns apperrors.ErrNotFound if the transaction does not exist or belongs to another owner.
	FindTransactionByID(ctx context.Context, ownerID string, transactionID int64) (*domain.Transaction, error)

	// ListTransactions returns the owner's transactions newest first, narrowed by filter.
	ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions. Every write keeps the
// person's stored balance equal to the signed sum of their non-reversed transactions.
type TransactionWriter interface {
	// RecordTransaction inserts txn for the person named txn.PersonName and applies it to
	// their balance in one database transaction. It returns the stored transaction (with
	// its ID) and the updated person.
	RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, *domain.Person, error)

	// ReverseTransaction flips reversed to true and removes the amount from the balance in
	// one database transaction. Returns apperrors.ErrAlreadyReversed on a second attempt.
	ReverseTransaction(ctx context.Context, ownerID string, transactionID int64, reversedAt time.Time, reversedBy string) (*domain.Transaction, *domain.Person, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
