package ledger

import (
	"bytes"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func txn(id int64, person, typ, amount string, daysAgo int, reversed bool) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:       id,
		Person:   person,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Date:     day.AddDate(0, 0, -daysAgo),
		Reversed: reversed,
	}
}

func person(name, balance string) dto.PersonResponse {
	return dto.PersonResponse{Name: name, Balance: decimal.RequireFromString(balance)}
}

func sample() *View {
	people := []dto.PersonResponse{person("carol", "0"), person("Bob", "-12.5"), person("alice", "40")}
	txns := []dto.TransactionResponse{
		txn(1, "alice", "RECEIVE", "50", 5, false),
		txn(2, "alice", "SEND", "10", 1, false),
		txn(3, "alice", "SEND", "99", 0, true),
		txn(4, "Bob", "SEND", "12.5", 2, false),
	}
	return Build(people, txns)
}

func names(v *View) []string {
	out := make([]string, len(v.Groups))
	for i, g := range v.Groups {
		out[i] = g.Person.Name
	}
	return out
}

func ids(g *Group) []int64 {
	out := make([]int64, len(g.Transactions))
	for i, t := range g.Transactions {
		out[i] = t.ID
	}
	return out
}

func TestBuildGroupsAndTotals(t *testing.T) {
	v := sample()

	assert.Equal(t, []string{"alice", "Bob", "carol"}, names(v))

	alice := v.Group("alice")
	require.NotNil(t, alice)
	assert.Equal(t, []int64{2, 1, 3}, ids(alice), "reversed rows last, newest first")
	assert.Equal(t, "10", alice.Totals.Sent.String())
	assert.Equal(t, "50", alice.Totals.Received.String())
	assert.Equal(t, "40", alice.Totals.Net().String())
	assert.Equal(t, 2, alice.Totals.Count)

	assert.Empty(t, v.Group("carol").Transactions)
	assert.Equal(t, "22.5", v.Totals.Sent.String())
	assert.Equal(t, "50", v.Totals.Received.String())
	assert.Equal(t, "27.5", v.Totals.Net().String())
	assert.Equal(t, 3, v.Totals.Count)
}

func TestBuildKeepsOrphanTransactions(t *testing.T) {
	v := Build(nil, []dto.TransactionResponse{txn(1, "dave", "RECEIVE", "5", 0, false)})
	require.NotNil(t, v.Group("dave"))
	assert.Equal(t, "5", v.Totals.Net().String())
}

func TestSingleExpandedGroup(t *testing.T) {
	v := sample()
	assert.Empty(t, v.Expanded())

	v.Toggle("alice")
	assert.Equal(t, "alice", v.Expanded())

	v.Toggle("Bob")
	assert.Equal(t, "Bob", v.Expanded())

	v.Toggle("Bob")
	assert.Empty(t, v.Expanded())

	v.Expand("nobody")
	assert.Empty(t, v.Expanded())

	v.Expand("carol")
	v.Collapse()
	assert.Empty(t, v.Expanded())
}

func TestRebuildKeepsExpandedGroup(t *testing.T) {
	prev := sample()
	prev.Expand("Bob")

	people := []dto.PersonResponse{person("Bob", "-20"), person("alice", "40")}
	txns := []dto.TransactionResponse{
		txn(4, "Bob", "SEND", "12.5", 2, false),
		txn(5, "Bob", "SEND", "7.5", 0, false),
	}
	v := Rebuild(prev, people, txns)
	assert.Equal(t, "Bob", v.Expanded())
	assert.Equal(t, []int64{5, 4}, ids(v.Group("Bob")))

	v.Expand("alice")
	gone := Rebuild(v, []dto.PersonResponse{person("Bob", "0")}, nil)
	assert.Empty(t, gone.Expanded())

	assert.Empty(t, Rebuild(nil, people, txns).Expanded())
}

func TestApplyReversal(t *testing.T) {
	v := sample()
	reversedAt := day.Add(time.Hour)

	updated := txn(2, "alice", "SEND", "10", 1, true)
	updated.ReversedAt = &reversedAt
	ok := v.ApplyReversal(updated, person("alice", "50"))
	require.True(t, ok)

	alice := v.Group("alice")
	assert.Equal(t, []int64{1, 3, 2}, ids(alice))
	assert.True(t, alice.Transactions[2].Reversed)
	assert.Equal(t, &reversedAt, alice.Transactions[2].ReversedAt)
	assert.Equal(t, "50", alice.Person.Balance.String())
	assert.True(t, alice.Totals.Sent.IsZero())
	assert.Equal(t, "12.5", v.Totals.Sent.String())
	assert.Equal(t, 2, v.Totals.Count)

	assert.False(t, v.ApplyReversal(updated, person("alice", "0")), "second reversal is a no-op")
	assert.Equal(t, "50", v.Group("alice").Person.Balance.String())
}

func TestApplyReversalWithoutPersonAdjustsBalance(t *testing.T) {
	v := sample()
	require.True(t, v.ApplyReversal(txn(4, "Bob", "SEND", "12.5", 2, true), dto.PersonResponse{}))
	assert.True(t, v.Group("Bob").Person.Balance.IsZero())

	assert.False(t, v.ApplyReversal(txn(42, "Bob", "SEND", "1", 0, true), dto.PersonResponse{}))
	assert.False(t, v.ApplyReversal(txn(1, "nobody", "SEND", "1", 0, true), dto.PersonResponse{}))
}

func TestFilter(t *testing.T) {
	lunch := txn(1, "alice", "SEND", "10", 0, false)
	lunch.Description = "Team Lunch"
	rent := txn(2, "Bob", "RECEIVE", "500", 0, false)
	rent.Description = "rent"
	all := []dto.TransactionResponse{lunch, rent}

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"empty matches all", Filter{}, []int64{1, 2}},
		{"description query", Filter{Query: "lunch"}, []int64{1}},
		{"person query", Filter{Query: "BOB"}, []int64{2}},
		{"type", Filter{Type: "receive"}, []int64{2}},
		{"person", Filter{Person: "Alice"}, []int64{1}},
		{"combined miss", Filter{Person: "alice", Type: "RECEIVE"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []int64{}
			for _, m := range tt.filter.Apply(all) {
				got = append(got, m.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	row := txn(1, "Bob", "SEND", "12.5", 0, false)
	row.Description = "lunch, drinks"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []dto.TransactionResponse{row}))
	assert.Equal(t,
		"id,date,person,type,amount,description,reversed\n"+
			"1,2024-03-01T10:00:00Z,Bob,SEND,12.50,\"lunch, drinks\",false\n",
		buf.String())
}
