package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// ReportingService defines aggregate views over an owner's transactions.
type ReportingService interface {
	// GetSummary totals non-reversed transactions dated in [from, to); nil bounds are open.
	GetSummary(ctx context.Context, ownerID string, from, to *time.Time) (*domain.Summary, error)
	// GetMonthlyReport returns twelve monthly totals for year.
	GetMonthlyReport(ctx context.Context, ownerID string, year int) ([]domain.MonthlyTotals, error)
}
