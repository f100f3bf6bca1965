package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteEventName(t *testing.T) {
	assert.Equal(t, "api_people_send", routeEventName("/api/people/send"))
	assert.Equal(t, "api_transactions_reverse_id", routeEventName("/api/transactions/reverse/:id"))
	assert.Equal(t, "", routeEventName(""))
}
