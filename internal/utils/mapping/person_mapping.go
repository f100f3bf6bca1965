package mapping

import (
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/models"
)

// ToModelPerson converts a domain Person to a model Person
func ToModelPerson(d domain.Person) models.Person {
	return models.Person{
		PersonID:    d.PersonID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPerson converts a model Person to a domain Person
func ToDomainPerson(m models.Person) domain.Person {
	return domain.Person{
		PersonID:    m.PersonID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPersonSlice converts a slice of model People to domain People
func ToDomainPersonSlice(ms []models.Person) []domain.Person {
	ds := make([]domain.Person, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPerson(m)
	}
	return ds
}
