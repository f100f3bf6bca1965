package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxPersonRepository struct {
	BaseRepository
}

func newPgxPersonRepository(base BaseRepository) portsrepo.PersonRepositoryFacade {
	return &PgxPersonRepository{BaseRepository: base}
}

var _ portsrepo.PersonRepositoryFacade = (*PgxPersonRepository)(nil)

const personColumns = `person_id, owner_id, name, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanPerson(row pgx.Row) (models.Person, error) {
	var m models.Person
	err := row.Scan(
		&m.PersonID,
		&m.OwnerID,
		&m.Name,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPersonRepository) SavePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	query := `
        INSERT INTO people (person_id, owner_id, name, balance, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.PersonID,
		m.OwnerID,
		m.Name,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: person %q already exists", apperrors.ErrDuplicate, person.Name)
		case pgForeignKeyViolation:
			return fmt.Errorf("owner %s: %w", person.OwnerID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

func (r *PgxPersonRepository) FindPersonByName(ctx context.Context, ownerID, name string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE owner_id = $1 AND name = $2;`
	m, err := scanPerson(r.Pool.QueryRow(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find person %q: %w", name, err)
	}
	p := mapping.ToDomainPerson(m)
	return &p, nil
}

func (r *PgxPersonRepository) ListPeople(ctx context.Context, ownerID string) ([]domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE owner_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
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

func (r *PgxPersonRepository) DeletePerson(ctx context.Context, ownerID, name string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM people WHERE owner_id = $1 AND name = $2;`, ownerID, name)
	if err != nil {
		return fmt.Errorf("failed to delete person %q: %w", name, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("person %q: %w", name, apperrors.ErrNotFound)
	}
	return nil
}
