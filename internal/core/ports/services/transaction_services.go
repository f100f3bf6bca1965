package services

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// ListAllTransactions returns every transaction of the owner, newest first.
	ListAllTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error)
	// ListTransactions returns one filtered page with a token for the next one.
	ListTransactions(ctx context.Context, ownerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transactions.
type TransactionWriterSvc interface {
	// RecordTransaction validates req and records a SEND or RECEIVE against the named person.
	RecordTransaction(ctx context.Context, ownerID string, txnType domain.TransactionType, req dto.RecordTransactionRequest) (*domain.Transaction, *domain.Person, error)
	// ReverseTransaction excludes the transaction from all totals. It can happen once.
	ReverseTransaction(ctx context.Context, ownerID string, transactionID int64) (*domain.Transaction, *domain.Person, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// TransactionEventPublisher announces committed transaction changes to other systems.
type TransactionEventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, txn domain.Transaction) error
	PublishTransactionReversed(ctx context.Context, txn domain.Transaction) error
}
