package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
)

// reportingService aggregates an owner's transactions. Totals are computed here
// rather than in SQL so both storage backends report identically.
type reportingService struct {
	BaseService
	transactionRepo portsrepo.TransactionReader
}

func NewReportingService(repo portsrepo.TransactionReader) portssvc.ReportingService {
	return &reportingService{transactionRepo: repo}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) GetSummary(ctx context.Context, ownerID string, from, to *time.Time) (*domain.Summary, error) {
	if from != nil && to != nil && !to.After(*from) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", apperrors.ErrValidation)
	}

	txns, err := s.transactionRepo.ListTransactions(ctx, ownerID, domain.TransactionFilter{From: from, To: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for summary")
		return nil, fmt.Errorf("failed to load transactions for summary: %w", err)
	}

	summary := &domain.Summary{
		Totals:      domain.ComputeTotals(txns),
		PeriodStart: from,
		PeriodEnd:   to,
	}
	s.LogDebug(ctx, "Summary generated", slog.Int("count", summary.Count))
	return summary, nil
}

func (s *reportingService) GetMonthlyReport(ctx context.Context, ownerID string, year int) ([]domain.MonthlyTotals, error) {
	if year < 1970 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, year)
	}

	from, to := domain.YearBounds(year, time.UTC)
	txns, err := s.transactionRepo.ListTransactions(ctx, ownerID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for monthly report", slog.Int("year", year))
		return nil, fmt.Errorf("failed to load transactions for monthly report: %w", err)
	}
	return domain.MonthlyBreakdown(year, txns), nil
}
