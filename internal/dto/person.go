package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddPersonRequest is bound from the query string of POST /api/people/add.
type AddPersonRequest struct {
	Name string `form:"name" binding:"required,max=100"`
}

// PersonResponse is a person as rendered to clients.
type PersonResponse struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PersonDetailResponse adds sent/received totals to a person.
type PersonDetailResponse struct {
	PersonResponse
	Summary TotalsResponse `json:"summary"`
}

func ToPersonResponse(p *domain.Person) PersonResponse {
	return PersonResponse{
		Name:      p.Name,
		Balance:   p.Balance,
		CreatedAt: p.CreatedAt,
	}
}

func ToPersonResponses(people []domain.Person) []PersonResponse {
	out := make([]PersonResponse, len(people))
	for i := range people {
		out[i] = ToPersonResponse(&people[i])
	}
	return out
}
