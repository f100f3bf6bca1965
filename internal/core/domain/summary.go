package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals aggregates non-reversed transactions.
type Totals struct {
	Sent     decimal.Decimal `json:"sent"`
	Received decimal.Decimal `json:"received"`
	Count    int             `json:"count"`
}

// Net is received minus sent.
func (t Totals) Net() decimal.Decimal {
	return t.Received.Sub(t.Sent)
}

// Add folds one transaction into the totals. Reversed transactions are ignored.
func (t *Totals) Add(txn Transaction) {
	if txn.Reversed {
		return
	}
	switch txn.Type {
	case TransactionTypeSend:
		t.Sent = t.Sent.Add(txn.Amount)
	case TransactionTypeReceive:
		t.Received = t.Received.Add(txn.Amount)
	default:
		return
	}
	t.Count++
}

// ComputeTotals sums sent and received over the non-reversed transactions.
func ComputeTotals(txns []Transaction) Totals {
	var totals Totals
	for _, txn := range txns {
		totals.Add(txn)
	}
	return totals
}

// ComputeBalance is the signed sum of non-reversed transactions (RECEIVE +, SEND -).
func ComputeBalance(txns []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range txns {
		balance = balance.Add(txn.Effect())
	}
	return balance
}

// Summary is a period-bounded Totals.
type Summary struct {
	Totals
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// MonthlyTotals is the Totals for one calendar month.
type MonthlyTotals struct {
	Year  int
	Month time.Month
	Totals
}

// Label renders the month as YYYY-MM.
func (m MonthlyTotals) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthBounds returns [first instant of month, first instant of next month) in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// YearBounds returns [Jan 1, Jan 1 of next year) in loc.
func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// MonthlyBreakdown buckets transactions dated within year into 12 monthly totals.
// Months are UTC calendar months, matching YearBounds(year, time.UTC).
func MonthlyBreakdown(year int, txns []Transaction) []MonthlyTotals {
	months := make([]MonthlyTotals, 12)
	for i := range months {
		months[i] = MonthlyTotals{Year: year, Month: time.Month(i + 1)}
	}
	for _, txn := range txns {
		date := txn.Date.UTC()
		if date.Year() != year {
			continue
		}
		months[date.Month()-1].Add(txn)
	}
	return months
}
