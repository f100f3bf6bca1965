// Package repotest holds the behaviour every repository backend must share.
// Each backend runs Suite against its own storage.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Suite exercises a RepositoryProvider through its port interfaces only.
type Suite struct {
	suite.Suite
	// Open returns a provider backed by an empty, migrated schema.
	Open func(t *testing.T) portsrepo.RepositoryProvider

	ctx   context.Context
	repos portsrepo.RepositoryProvider
	owner domain.User
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.repos = s.Open(s.T())
	s.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.owner = s.createUser("alice")
}

func (s *Suite) createUser(username string) domain.User {
	id := uuid.NewString()
	user := domain.User{
		UserID:       id,
		Username:     username,
		PasswordHash: "hash",
		Name:         username,
		AuthProvider: domain.ProviderLocal,
		AuditFields:  domain.NewAuditFields(id, s.now),
	}
	s.Require().NoError(s.repos.UserRepo.SaveUser(s.ctx, user))
	return user
}

func (s *Suite) addPerson(ownerID, name string) domain.Person {
	p := domain.Person{
		PersonID:    uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Balance:     decimal.Zero,
		AuditFields: domain.NewAuditFields(ownerID, s.now),
	}
	s.Require().NoError(s.repos.PersonRepo.SavePerson(s.ctx, p))
	return p
}

func (s *Suite) record(ownerID, name string, t domain.TransactionType, amount string, date time.Time, desc string) *domain.Transaction {
	txn, _, err := s.repos.TransactionRepo.RecordTransaction(s.ctx, domain.Transaction{
		OwnerID:     ownerID,
		PersonName:  name,
		Type:        t,
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
		Date:        date,
		AuditFields: domain.NewAuditFields(ownerID, date),
	})
	s.Require().NoError(err)
	return txn
}

func (s *Suite) TestPing() {
	s.NoError(s.repos.Health.Ping(s.ctx))
}

func (s *Suite) TestUserLookupsAndDuplicate() {
	byName, err := s.repos.UserRepo.FindUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(s.owner.UserID, byName.UserID)
	s.True(s.now.Equal(byName.CreatedAt))

	_, err = s.repos.UserRepo.FindUserByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.repos.UserRepo.SaveUser(s.ctx, s.owner)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *Suite) TestProviderLookup() {
	id := uuid.NewString()
	user := domain.User{
		UserID:         id,
		Username:       "g_123",
		Email:          "g@example.com",
		EmailVerified:  true,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: "123",
		AuditFields:    domain.NewAuditFields(id, s.now),
	}
	s.Require().NoError(s.repos.UserRepo.SaveUser(s.ctx, user))

	found, err := s.repos.UserRepo.FindUserByProviderDetails(s.ctx, domain.ProviderGoogle, "123")
	s.Require().NoError(err)
	s.Equal(id, found.UserID)
	s.True(found.EmailVerified)
	s.Empty(found.PasswordHash)
}

func (s *Suite) TestRefreshTokenSetAndClear() {
	expiry := s.now.Add(24 * time.Hour)
	s.Require().NoError(s.repos.UserRepo.UpdateRefreshToken(s.ctx, s.owner.UserID, "abc", &expiry))

	user, err := s.repos.UserRepo.FindUserByID(s.ctx, s.owner.UserID)
	s.Require().NoError(err)
	s.Equal("abc", user.RefreshTokenHash)
	s.Require().NotNil(user.RefreshTokenExpiryTime)
	s.True(expiry.Equal(*user.RefreshTokenExpiryTime))

	s.Require().NoError(s.repos.UserRepo.UpdateRefreshToken(s.ctx, s.owner.UserID, "", nil))
	user, err = s.repos.UserRepo.FindUserByID(s.ctx, s.owner.UserID)
	s.Require().NoError(err)
	s.Empty(user.RefreshTokenHash)
	s.Nil(user.RefreshTokenExpiryTime)

	err = s.repos.UserRepo.UpdateRefreshToken(s.ctx, uuid.NewString(), "", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *Suite) TestPeopleAreScopedToOwner() {
	bob := s.createUser("bob")
	s.addPerson(s.owner.UserID, "carol")
	s.addPerson(s.owner.UserID, "anna")
	s.addPerson(bob.UserID, "carol")

	err := s.repos.PersonRepo.SavePerson(s.ctx, domain.Person{
		PersonID:    uuid.NewString(),
		OwnerID:     s.owner.UserID,
		Name:        "carol",
		AuditFields: domain.NewAuditFields(s.owner.UserID, s.now),
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	people, err := s.repos.PersonRepo.ListPeople(s.ctx, s.owner.UserID)
	s.Require().NoError(err)
	s.Require().Len(people, 2)
	s.Equal("anna", people[0].Name)
	s.Equal("carol", people[1].Name)

	_, err = s.repos.PersonRepo.FindPersonByName(s.ctx, bob.UserID, "anna")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *Suite) TestRecordAndReverseKeepBalance() {
	s.addPerson(s.owner.UserID, "carol")
	s.record(s.owner.UserID, "carol", domain.TransactionTypeReceive, "100.75", s.now, "salary share")
	sent := s.record(s.owner.UserID, "carol", domain.TransactionTypeSend, "30.25", s.now.Add(time.Hour), "dinner")
	s.NotZero(sent.TransactionID)
	s.Equal("carol", sent.PersonName)

	person, err := s.repos.PersonRepo.FindPersonByName(s.ctx, s.owner.UserID, "carol")
	s.Require().NoError(err)
	s.Equal("70.5", person.Balance.String())

	reversedAt := s.now.Add(2 * time.Hour)
	txn, updated, err := s.repos.TransactionRepo.ReverseTransaction(s.ctx, s.owner.UserID, sent.TransactionID, reversedAt, s.owner.UserID)
	s.Require().NoError(err)
	s.True(txn.Reversed)
	s.Require().NotNil(txn.ReversedAt)
	s.True(reversedAt.Equal(*txn.ReversedAt))
	s.Equal("100.75", updated.Balance.String())
	s.Equal(time.UTC, txn.Date.Location())
	s.Equal(time.UTC, txn.ReversedAt.Location())

	_, _, err = s.repos.TransactionRepo.ReverseTransaction(s.ctx, s.owner.UserID, sent.TransactionID, reversedAt, s.owner.UserID)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)
	s.ErrorIs(err, apperrors.ErrConflict)

	all, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{})
	s.Require().NoError(err)
	s.True(domain.ComputeBalance(all).Equal(updated.Balance))
}

func (s *Suite) TestRecordForUnknownPerson() {
	_, _, err := s.repos.TransactionRepo.RecordTransaction(s.ctx, domain.Transaction{
		OwnerID:    s.owner.UserID,
		PersonName: "nobody",
		Type:       domain.TransactionTypeSend,
		Amount:     decimal.NewFromInt(1),
		Date:       s.now,
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *Suite) TestReverseOtherOwnersTransaction() {
	bob := s.createUser("bob")
	s.addPerson(bob.UserID, "dave")
	txn := s.record(bob.UserID, "dave", domain.TransactionTypeSend, "5", s.now, "")

	_, _, err := s.repos.TransactionRepo.ReverseTransaction(s.ctx, s.owner.UserID, txn.TransactionID, s.now, s.owner.UserID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.repos.TransactionRepo.FindTransactionByID(s.ctx, s.owner.UserID, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *Suite) TestListTransactionsFiltersAndPages() {
	s.addPerson(s.owner.UserID, "carol")
	s.addPerson(s.owner.UserID, "dan")
	s.record(s.owner.UserID, "carol", domain.TransactionTypeSend, "10", s.now, "Lunch 50% off")
	s.record(s.owner.UserID, "dan", domain.TransactionTypeReceive, "20", s.now.AddDate(0, 0, 1), "rent")
	s.record(s.owner.UserID, "carol", domain.TransactionTypeReceive, "30", s.now.AddDate(0, 0, 2), "refund")
	s.record(s.owner.UserID, "carol", domain.TransactionTypeSend, "40", s.now.AddDate(0, 1, 0), "trip")

	byPerson, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{PersonName: "carol"})
	s.Require().NoError(err)
	s.Len(byPerson, 3)
	s.Equal("trip", byPerson[0].Description)

	byType, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{Type: domain.TransactionTypeReceive})
	s.Require().NoError(err)
	s.Len(byType, 2)

	byQuery, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{Query: "50%"})
	s.Require().NoError(err)
	s.Require().Len(byQuery, 1)
	s.Equal("Lunch 50% off", byQuery[0].Description)

	byName, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{Query: "DAN"})
	s.Require().NoError(err)
	s.Len(byName, 1)

	from, to := domain.MonthBounds(2024, time.May, time.UTC)
	inMay, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{From: &from, To: &to})
	s.Require().NoError(err)
	s.Len(inMay, 3)

	page1, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page1, 2)
	last := page1[1]
	page2, err := s.repos.TransactionRepo.ListTransactions(s.ctx, s.owner.UserID, domain.TransactionFilter{
		Limit: 2,
		After: &domain.TransactionCursor{Date: last.Date, TransactionID: last.TransactionID},
	})
	s.Require().NoError(err)
	s.Require().Len(page2, 2)
	s.Equal("rent", page2[0].Description)
	s.Equal("Lunch 50% off", page2[1].Description)
}

func (s *Suite) TestDeletePersonCascades() {
	s.addPerson(s.owner.UserID, "carol")
	txn := s.record(s.owner.UserID, "carol", domain.TransactionTypeSend, "10", s.now, "")

	s.Require().NoError(s.repos.PersonRepo.DeletePerson(s.ctx, s.owner.UserID, "carol"))

	_, err := s.repos.TransactionRepo.FindTransactionByID(s.ctx, s.owner.UserID, txn.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.repos.PersonRepo.DeletePerson(s.ctx, s.owner.UserID, "carol")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
