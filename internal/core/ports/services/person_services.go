package services

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// PersonReaderSvc defines read operations for people.
type PersonReaderSvc interface {
	ListPeople(ctx context.Context, ownerID string) ([]domain.Person, error)
	// GetPersonSummary returns the person and the totals of their non-reversed transactions.
	GetPersonSummary(ctx context.Context, ownerID, name string) (*domain.Person, domain.Totals, error)
}

// PersonWriterSvc defines write operations for people.
type PersonWriterSvc interface {
	AddPerson(ctx context.Context, ownerID, name string) (*domain.Person, error)
	// DeletePerson removes the person together with their transaction history.
	DeletePerson(ctx context.Context, ownerID, name string) error
}

// PersonSvcFacade combines all person-related service interfaces
type PersonSvcFacade interface {
	PersonReaderSvc
	PersonWriterSvc
}
