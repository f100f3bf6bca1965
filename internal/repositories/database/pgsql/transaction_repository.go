package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/repositories/database"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(base BaseRepository) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: base}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionSelect = `
	SELECT t.transaction_id, t.owner_id, t.person_id, p.name, t.transaction_type, t.amount, t.description,
	       t.transaction_date, t.reversed, t.reversed_at, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
	FROM transactions t
	JOIN people p ON p.person_id = t.person_id
`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OwnerID,
		&m.PersonID,
		&m.PersonName,
		&m.TransactionType,
		&m.Amount,
		&m.Description,
		&m.TransactionDate,
		&m.Reversed,
		&m.ReversedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, ownerID string, transactionID int64) (*domain.Transaction, error) {
	query := transactionSelect + `WHERE t.owner_id = $1 AND t.transaction_id = $2;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, ownerID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, ownerID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := database.TransactionWhere(database.Postgres, ownerID, filter)
	query := transactionSelect + where +
		` ORDER BY t.transaction_date DESC, t.transaction_id DESC` + database.LimitClause(filter.Limit)

	rows, err := r.Pool.Query(ctx, query, args...)
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

func (r *PgxTransactionRepository) RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, *domain.Person, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	// Row lock serializes concurrent balance updates for the same person.
	personModel, err := scanPerson(tx.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = $1 AND name = $2 FOR UPDATE;`,
		txn.OwnerID, txn.PersonName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("person %q: %w", txn.PersonName, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to lock person %q: %w", txn.PersonName, err)
	}
	person := mapping.ToDomainPerson(personModel)

	txn.PersonID = person.PersonID
	txn.PersonName = person.Name
	m := mapping.ToModelTransaction(txn)
	err = tx.QueryRow(ctx, `
        INSERT INTO transactions (owner_id, person_id, transaction_type, amount, description, transaction_date,
            reversed, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9, $10)
        RETURNING transaction_id;`,
		m.OwnerID,
		m.PersonID,
		m.TransactionType,
		m.Amount,
		m.Description,
		m.TransactionDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&txn.TransactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	person.Apply(txn)
	person.LastUpdatedAt = txn.CreatedAt
	person.LastUpdatedBy = txn.CreatedBy
	if err := updateBalance(ctx, tx, person); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &txn, &person, nil
}

func (r *PgxTransactionRepository) ReverseTransaction(ctx context.Context, ownerID string, transactionID int64, reversedAt time.Time, reversedBy string) (*domain.Transaction, *domain.Person, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanTransaction(tx.QueryRow(ctx,
		transactionSelect+`WHERE t.owner_id = $1 AND t.transaction_id = $2 FOR UPDATE OF t, p;`,
		ownerID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("transaction %d: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to lock transaction %d: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	if txn.Reversed {
		return nil, nil, apperrors.ErrAlreadyReversed
	}

	personModel, err := scanPerson(tx.QueryRow(ctx,
		`SELECT `+personColumns+` FROM people WHERE person_id = $1;`, txn.PersonID))
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

	cmdTag, err := tx.Exec(ctx, `
        UPDATE transactions
        SET reversed = TRUE, reversed_at = $1, last_updated_at = $2, last_updated_by = $3
        WHERE transaction_id = $4 AND reversed = FALSE;`,
		reversedAt, reversedAt, reversedBy, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reverse transaction %d: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, nil, apperrors.ErrAlreadyReversed
	}

	if err := updateBalance(ctx, tx, person); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &txn, &person, nil
}

func updateBalance(ctx context.Context, tx pgx.Tx, person domain.Person) error {
	_, err := tx.Exec(ctx,
		`UPDATE people SET balance = $1, last_updated_at = $2, last_updated_by = $3 WHERE person_id = $4;`,
		person.Balance, person.LastUpdatedAt, person.LastUpdatedBy, person.PersonID)
	if err != nil {
		return fmt.Errorf("failed to update balance for %q: %w", person.Name, err)
	}
	return nil
}
