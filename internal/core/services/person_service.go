package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type personService struct {
	BaseService
	personRepo      portsrepo.PersonRepositoryFacade
	transactionRepo portsrepo.TransactionReader
}

func NewPersonService(personRepo portsrepo.PersonRepositoryFacade, transactionRepo portsrepo.TransactionReader) portssvc.PersonSvcFacade {
	return &personService{
		personRepo:      personRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.PersonSvcFacade = (*personService)(nil)

func (s *personService) ListPeople(ctx context.Context, ownerID string) ([]domain.Person, error) {
	people, err := s.personRepo.ListPeople(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list people")
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

func (s *personService) GetPersonSummary(ctx context.Context, ownerID, name string) (*domain.Person, domain.Totals, error) {
	name, err := domain.NormalizePersonName(name)
	if err != nil {
		return nil, domain.Totals{}, err
	}

	person, err := s.personRepo.FindPersonByName(ctx, ownerID, name)
	if err != nil {
		return nil, domain.Totals{}, err
	}

	txns, err := s.transactionRepo.ListTransactions(ctx, ownerID, domain.TransactionFilter{PersonName: person.Name})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for person summary", slog.String("person", name))
		return nil, domain.Totals{}, fmt.Errorf("failed to load transactions for %q: %w", name, err)
	}

	totals := domain.ComputeTotals(txns)
	if balance := domain.ComputeBalance(txns); !balance.Equal(person.Balance) {
		s.GetLogger(ctx).Warn("Stored balance differs from transaction history",
			slog.String("person", name),
			slog.String("stored", person.Balance.String()),
			slog.String("computed", balance.String()))
	}
	return person, totals, nil
}

func (s *personService) AddPerson(ctx context.Context, ownerID, name string) (*domain.Person, error) {
	name, err := domain.NormalizePersonName(name)
	if err != nil {
		return nil, err
	}

	person := domain.Person{
		PersonID:    uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Balance:     decimal.Zero,
		AuditFields: domain.NewAuditFields(ownerID, s.Now()),
	}
	if err := s.personRepo.SavePerson(ctx, person); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save person", slog.String("person", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Person added", slog.String("person_id", person.PersonID))
	return &person, nil
}

func (s *personService) DeletePerson(ctx context.Context, ownerID, name string) error {
	name, err := domain.NormalizePersonName(name)
	if err != nil {
		return err
	}
	if err := s.personRepo.DeletePerson(ctx, ownerID, name); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete person", slog.String("person", name))
		}
		return err
	}
	s.LogInfo(ctx, "Person deleted with transaction history", slog.String("person", name))
	return nil
}
