package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryParams optionally bounds a summary to [from, to).
type SummaryParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// MonthlyReportParams selects the calendar year of a monthly report.
type MonthlyReportParams struct {
	Year int `form:"year" binding:"omitempty,min=1970,max=9999"`
}

// TotalsResponse represents sent/received/net over non-reversed transactions.
type TotalsResponse struct {
	Sent     decimal.Decimal `json:"sent"`
	Received decimal.Decimal `json:"received"`
	Net      decimal.Decimal `json:"net"`
	Count    int             `json:"count"`
}

// SummaryResponse represents the totals for an optional period.
type SummaryResponse struct {
	TotalsResponse
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
}

// MonthlyTotalsResponse represents one row of the monthly report.
type MonthlyTotalsResponse struct {
	Month    string          `json:"month"`
	Sent     decimal.Decimal `json:"sent"`
	Received decimal.Decimal `json:"received"`
	Net      decimal.Decimal `json:"net"`
}

func ToTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Sent:     t.Sent,
		Received: t.Received,
		Net:      t.Net(),
		Count:    t.Count,
	}
}

func ToSummaryResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		TotalsResponse: ToTotalsResponse(s.Totals),
		PeriodStart:    s.PeriodStart,
		PeriodEnd:      s.PeriodEnd,
	}
}

func ToMonthlyTotalsResponses(months []domain.MonthlyTotals) []MonthlyTotalsResponse {
	out := make([]MonthlyTotalsResponse, len(months))
	for i, m := range months {
		out[i] = MonthlyTotalsResponse{
			Month:    m.Label(),
			Sent:     m.Sent,
			Received: m.Received,
			Net:      m.Net(),
		}
	}
	return out
}
