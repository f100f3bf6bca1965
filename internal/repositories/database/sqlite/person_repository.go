package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
)

type SQLitePersonRepository struct {
	BaseRepository
}

func newSQLitePersonRepository(base BaseRepository) portsrepo.PersonRepositoryFacade {
	return &SQLitePersonRepository{BaseRepository: base}
}

var _ portsrepo.PersonRepositoryFacade = (*SQLitePersonRepository)(nil)

const personColumns = `person_id, owner_id, name, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanPerson(row rowScanner) (models.Person, error) {
	var (
		m                    models.Person
		createdAt, updatedAt string
	)
	err := row.Scan(
		&m.PersonID,
		&m.OwnerID,
		&m.Name,
		&m.Balance,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTime(updatedAt)
	return m, err
}

func (r *SQLitePersonRepository) SavePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO people (person_id, owner_id, name, balance, created_at, created_by, last_updated_at, last_updated_by)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		m.PersonID,
		m.OwnerID,
		m.Name,
		m.Balance.StringFixed(domain.MaxAmountScale),
		formatTime(m.CreatedAt),
		m.CreatedBy,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: person %q already exists", apperrors.ErrDuplicate, person.Name)
		case isForeignKeyViolation(err):
			return fmt.Errorf("owner %s: %w", person.OwnerID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

func (r *SQLitePersonRepository) FindPersonByName(ctx context.Context, ownerID, name string) (*domain.Person, error) {
	m, err := scanPerson(r.DB.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = ? AND name = ?;`, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find person %q: %w", name, err)
	}
	p := mapping.ToDomainPerson(m)
	return &p, nil
}

func (r *SQLitePersonRepository) ListPeople(ctx context.Context, ownerID string) ([]domain.Person, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE owner_id = ? ORDER BY name;`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	modelPeople := []models.Person{}
	for rows.Next() {
		m, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		modelPeople = append(modelPeople, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating person rows: %w", err)
	}
	return mapping.ToDomainPersonSlice(modelPeople), nil
}

func (r *SQLitePersonRepository) DeletePerson(ctx context.Context, ownerID, name string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM people WHERE owner_id = ? AND name = ?;`, ownerID, name)
	if err != nil {
		return fmt.Errorf("failed to delete person %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("person %q: %w", name, apperrors.ErrNotFound)
	}
	return nil
}
