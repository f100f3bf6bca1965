package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils/pagination"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	publisher       portssvc.TransactionEventPublisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithEventPublisher announces committed transactions through p.
func WithEventPublisher(p portssvc.TransactionEventPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = p
	}
}

func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{transactionRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) ListAllTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	txns, err := s.transactionRepo.ListTransactions(ctx, ownerID, domain.TransactionFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, ownerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter, err := buildTransactionFilter(params)
	if err != nil {
		return nil, err
	}
	pageSize := filter.Limit
	// One extra row tells whether another page exists.
	filter.Limit = pageSize + 1

	txns, err := s.transactionRepo.ListTransactions(ctx, ownerID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list filtered transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{}
	if len(txns) > pageSize {
		txns = txns[:pageSize]
		last := txns[len(txns)-1]
		resp.NextPageToken = pagination.EncodeCursor(domain.TransactionCursor{Date: last.Date, TransactionID: last.TransactionID})
	}
	resp.Transactions = dto.ToTransactionResponses(txns)
	return resp, nil
}

func buildTransactionFilter(params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		PersonName: strings.TrimSpace(params.Person),
		Query:      strings.TrimSpace(params.Query),
		Limit:      params.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	if params.Type != "" {
		t, err := domain.ParseTransactionType(params.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = t
	}

	from, err := dto.ParseDateBound(params.From, false)
	if err != nil {
		return filter, err
	}
	to, err := dto.ParseDateBound(params.To, true)
	if err != nil {
		return filter, err
	}
	if from != nil && to != nil && !to.After(*from) {
		return filter, fmt.Errorf("%w: 'to' must be after 'from'", apperrors.ErrValidation)
	}
	filter.From, filter.To = from, to

	if params.PageToken != "" {
		cursor, err := pagination.DecodeCursor(params.PageToken)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = cursor
	}
	return filter, nil
}

func (s *transactionService) RecordTransaction(ctx context.Context, ownerID string, txnType domain.TransactionType, req dto.RecordTransactionRequest) (*domain.Transaction, *domain.Person, error) {
	if !txnType.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txnType)
	}
	name, err := domain.NormalizePersonName(req.Name)
	if err != nil {
		return nil, nil, err
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, nil, err
	}
	description, err := domain.NormalizeDescription(req.Description)
	if err != nil {
		return nil, nil, err
	}

	now := s.Now()
	txn, person, err := s.transactionRepo.RecordTransaction(ctx, domain.Transaction{
		OwnerID:     ownerID,
		PersonName:  name,
		Type:        txnType,
		Amount:      amount,
		Description: description,
		Date:        now,
		AuditFields: domain.NewAuditFields(ownerID, now),
	})
	if err != nil {
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionRecorded(ctx, *txn); err != nil {
			s.LogError(ctx, err, "Failed to publish transaction event", slog.Int64("transaction_id", txn.TransactionID))
		}
	}
	return txn, person, nil
}

func (s *transactionService) ReverseTransaction(ctx context.Context, ownerID string, transactionID int64) (*domain.Transaction, *domain.Person, error) {
	if transactionID <= 0 {
		return nil, nil, fmt.Errorf("%w: invalid transaction id %d", apperrors.ErrValidation, transactionID)
	}

	txn, person, err := s.transactionRepo.ReverseTransaction(ctx, ownerID, transactionID, s.Now(), ownerID)
	if err != nil {
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction reversed", slog.Int64("transaction_id", txn.TransactionID))
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionReversed(ctx, *txn); err != nil {
			s.LogError(ctx, err, "Failed to publish transaction event", slog.Int64("transaction_id", txn.TransactionID))
		}
	}
	return txn, person, nil
}
