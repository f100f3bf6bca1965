package repositories

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// PersonReader defines read operations for people.
type PersonReader interface {
	// FindPersonByName returns apperrors.ErrNotFound when the owner has no such person.
	FindPersonByName(ctx context.Context, ownerID, name string) (*domain.Person, error)

	// ListPeople returns the owner's people ordered by name.
	ListPeople(ctx context.Context, ownerID string) ([]domain.Person, error)
}

// PersonWriter defines write operations for people.
type PersonWriter interface {
	// SavePerson inserts a new person. Returns apperrors.ErrDuplicate if the name is taken for the owner.
	SavePerson(ctx context.Context, person domain.Person) error

	// DeletePerson removes the person and, by cascade, all of their transactions.
	DeletePerson(ctx context.Context, ownerID, name string) error
}

// PersonRepositoryFacade combines all person-related repository interfaces
type PersonRepositoryFacade interface {
	PersonReader
	PersonWriter
}
