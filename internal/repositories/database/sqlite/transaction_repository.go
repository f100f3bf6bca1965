package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/repositories/database"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
)

type SQLiteTransactionRepository struct {
	BaseRepository
}

func newSQLiteTransactionRepository(base BaseRepository) portsrepo.TransactionRepositoryFacade {
	return &SQLiteTransactionRepository{BaseRepository: base}
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

const transactionSelect = `
	SELECT t.transaction_id, t.owner_id, t.person_id, p.name, t.transaction_type, t.amount, t.description,
	       t.transaction_date, t.reversed, t.reversed_at, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
	FROM transactions t
	JOIN people p ON p.person_id = t.person_id
`

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		m                          models.Transaction
		date, createdAt, updatedAt string
		reversedAt                 sql.NullString
	)
	err := row.Scan(
		&m.TransactionID,
		&m.OwnerID,
		&m.PersonID,
		&m.PersonName,
		&m.TransactionType,
		&m.Amount,
		&m.Description,
		&date,
		&m.Reversed,
		&reversedAt,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if m.TransactionDate, err = parseTime(date); err != nil {
		return m, err
	}
	if m.ReversedAt, err = parseNullTime(reversedAt); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTime(updatedAt)
	return m, err
}

func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, ownerID string, transactionID int64) (*domain.Transaction, error) {
	m, err := scanTransaction(r.DB.QueryRowContext(ctx,
		transactionSelect+`WHERE t.owner_id = ? AND t.transaction_id = ?;`, ownerID, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *SQLiteTransactionRepository) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := database.TransactionWhere(database.SQLite, ownerID, filter)
	query := transactionSelect + where +
		` ORDER BY t.transaction_date DESC, t.transaction_id DESC` + database.LimitClause(filter.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// RecordTransaction relies on the single-connection pool: the open *sql.Tx holds the
// only connection, so the balance read-modify-write cannot interleave.
func (r *SQLiteTransactionRepository) RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, *domain.Person, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(tx)

	personModel, err := scanPerson(tx.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = ? AND name = ?;`, txn.OwnerID, txn.PersonName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("person %q: %w", txn.PersonName, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load person %q: %w", txn.PersonName, err)
	}
	person := mapping.ToDomainPerson(personModel)

	txn.PersonID = person.PersonID
	txn.PersonName = person.Name
	m := mapping.ToModelTransaction(txn)
	res, err := tx.ExecContext(ctx, `
        INSERT INTO transactions (owner_id, person_id, transaction_type, amount, description, transaction_date,
            reversed, created_at, created_by, last_updated_at, last_updated_by)
        VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?);`,
		m.OwnerID,
		m.PersonID,
		m.TransactionType,
		m.Amount.StringFixed(domain.MaxAmountScale),
		m.Description,
		formatTime(m.TransactionDate),
		formatTime(m.CreatedAt),
		m.CreatedBy,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	if txn.TransactionID, err = res.LastInsertId(); err != nil {
		return nil, nil, fmt.Errorf("failed to read transaction id: %w", err)
	}

	person.Apply(txn)
	person.LastUpdatedAt = txn.CreatedAt
	person.LastUpdatedBy = txn.CreatedBy
	if err := updateBalance(ctx, tx, person); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(tx); err != nil {
		return nil, nil, err
	}
	return &txn, &person, nil
}

func (r *SQLiteTransactionRepository) ReverseTransaction(ctx context.Context, ownerID string, transactionID int64, reversedAt time.Time, reversedBy string) (*domain.Transaction, *domain.Person, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(tx)

	m, err := scanTransaction(tx.QueryRowContext(ctx,
		transactionSelect+`WHERE t.owner_id = ? AND t.transaction_id = ?;`, ownerID, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load transaction %d: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	if txn.Reversed {
		return nil, nil, apperrors.ErrAlreadyReversed
	}

	personModel, err := scanPerson(tx.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE person_id = ?;`, txn.PersonID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load person for transaction %d: %w", transactionID, err)
	}
	person := mapping.ToDomainPerson(personModel)

	person.Unapply(txn)
	if err := txn.Reverse(reversedAt, reversedBy); err != nil {
		return nil, nil, err
	}
	person.LastUpdatedAt = reversedAt
	person.LastUpdatedBy = reversedBy

	res, err := tx.ExecContext(ctx, `
        UPDATE transactions
        SET reversed = 1, reversed_at = ?, last_updated_at = ?, last_updated_by = ?
        WHERE transaction_id = ? AND reversed = 0;`,
		formatTime(reversedAt), formatTime(reversedAt), reversedBy, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reverse transaction %d: %w", transactionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, apperrors.ErrAlreadyReversed
	}

	if err := updateBalance(ctx, tx, person); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(tx); err != nil {
		return nil, nil, err
	}
	return &txn, &person, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, person domain.Person) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE people SET balance = ?, last_updated_at = ?, last_updated_by = ? WHERE person_id = ?;`,
		person.Balance.StringFixed(domain.MaxAmountScale), formatTime(person.LastUpdatedAt), person.LastUpdatedBy, person.PersonID)
	if err != nil {
		return fmt.Errorf("failed to update balance for %q: %w", person.Name, err)
	}
	return nil
}
