// Package database holds SQL helpers shared by the Postgres and SQLite repositories.
package database

import (
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect struct {
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Like is the case-insensitive pattern operator.
	Like string
	// TimeArg converts a time to the value stored in timestamp columns.
	TimeArg func(t time.Time) any
}

var (
	Postgres = Dialect{
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		Like:        "ILIKE",
		TimeArg:     func(t time.Time) any { return t.UTC() },
	}
	SQLite = Dialect{
		Placeholder: func(int) string { return "?" },
		Like:        "LIKE",
		TimeArg:     func(t time.Time) any { return FormatSQLiteTime(t) },
	}
)

// SQLiteTimeFormat is fixed width so lexical order equals chronological order.
const SQLiteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSQLiteTime renders t in UTC using SQLiteTimeFormat.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeFormat)
}

// LikePattern wraps q in wildcards, escaping LIKE metacharacters with a backslash.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// TransactionWhere builds the WHERE clause and arguments for a transaction listing.
// Columns are referenced through the aliases t (transactions) and p (people).
// The first bind parameter is always the owner ID.
func TransactionWhere(d Dialect, ownerID string, f domain.TransactionFilter) (string, []any) {
	args := []any{ownerID}
	next := func(v any) string {
		args = append(args, v)
		return d.Placeholder(len(args))
	}

	conds := []string{"t.owner_id = " + d.Placeholder(1)}
	if f.PersonName != "" {
		conds = append(conds, "p.name = "+next(f.PersonName))
	}
	if f.Type != "" {
		conds = append(conds, "t.transaction_type = "+next(string(f.Type)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := LikePattern(q)
		descArg := next(pattern)
		nameArg := next(pattern)
		conds = append(conds, "(t.description "+d.Like+" "+descArg+` ESCAPE '\' OR p.name `+d.Like+" "+nameArg+` ESCAPE '\')`)
	}
	if f.From != nil {
		conds = append(conds, "t.transaction_date >= "+next(d.TimeArg(*f.From)))
	}
	if f.To != nil {
		conds = append(conds, "t.transaction_date < "+next(d.TimeArg(*f.To)))
	}
	if f.After != nil {
		date := d.TimeArg(f.After.Date)
		dateArg := next(date)
		sameDateArg := next(date)
		idArg := next(f.After.TransactionID)
		conds = append(conds, "(t.transaction_date < "+dateArg+
			" OR (t.transaction_date = "+sameDateArg+" AND t.transaction_id < "+idArg+"))")
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// LimitClause returns a LIMIT clause, or an empty string when limit is not positive.
func LimitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return " LIMIT " + strconv.Itoa(limit)
}
