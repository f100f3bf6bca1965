// Package ledger turns the people and transaction lists returned by the API
// into per-person groups with running totals, and keeps that view consistent
// across local mutations without refetching.
package ledger

import (
	"sort"
	"strings"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
)

// Group is one person's section.
type Group struct {
	Person       dto.PersonResponse
	Transactions []dto.TransactionResponse
	Totals       domain.Totals
}

// View is the grouped ledger plus the single expanded section.
type View struct {
	Groups   []*Group
	Totals   domain.Totals
	expanded string
}

// Build groups txns under people. Transactions for names not in people get a group of their own.
func Build(people []dto.PersonResponse, txns []dto.TransactionResponse) *View {
	v := &View{}
	byName := make(map[string]*Group, len(people))
	for _, p := range people {
		g := &Group{Person: p}
		byName[p.Name] = g
		v.Groups = append(v.Groups, g)
	}
	for _, t := range txns {
		g, ok := byName[t.Person]
		if !ok {
			g = &Group{Person: dto.PersonResponse{Name: t.Person}}
			byName[t.Person] = g
			v.Groups = append(v.Groups, g)
		}
		g.Transactions = append(g.Transactions, t)
	}

	sort.SliceStable(v.Groups, func(i, j int) bool {
		return strings.ToLower(v.Groups[i].Person.Name) < strings.ToLower(v.Groups[j].Person.Name)
	})
	for _, g := range v.Groups {
		g.sort()
		g.recompute()
	}
	v.recompute()
	return v
}

// Rebuild is Build for a refresh after a mutation: the section that was open
// in prev stays open if that person still has one.
func Rebuild(prev *View, people []dto.PersonResponse, txns []dto.TransactionResponse) *View {
	v := Build(people, txns)
	if prev != nil {
		v.Expand(prev.Expanded())
	}
	return v
}

// sort orders active rows before reversed ones, newest first within each.
func (g *Group) sort() {
	sort.SliceStable(g.Transactions, func(i, j int) bool {
		a, b := g.Transactions[i], g.Transactions[j]
		if a.Reversed != b.Reversed {
			return !a.Reversed
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
}

func (g *Group) recompute() {
	g.Totals = domain.Totals{}
	for _, t := range g.Transactions {
		g.Totals.Add(toDomain(t))
	}
}

func (v *View) recompute() {
	v.Totals = domain.Totals{}
	for _, g := range v.Groups {
		v.Totals.Sent = v.Totals.Sent.Add(g.Totals.Sent)
		v.Totals.Received = v.Totals.Received.Add(g.Totals.Received)
		v.Totals.Count += g.Totals.Count
	}
}

func toDomain(t dto.TransactionResponse) domain.Transaction {
	return domain.Transaction{
		TransactionID: t.ID,
		Type:          domain.TransactionType(t.Type),
		Amount:        t.Amount,
		Reversed:      t.Reversed,
	}
}

// Group returns the section for name, or nil.
func (v *View) Group(name string) *Group {
	for _, g := range v.Groups {
		if g.Person.Name == name {
			return g
		}
	}
	return nil
}

// Expanded is the name of the open section, empty when all are collapsed.
func (v *View) Expanded() string {
	return v.expanded
}

// Expand opens name and closes whatever was open. Unknown names are ignored.
func (v *View) Expand(name string) {
	if v.Group(name) != nil {
		v.expanded = name
	}
}

func (v *View) Collapse() {
	v.expanded = ""
}

// Toggle closes name if it is open, otherwise opens it.
func (v *View) Toggle(name string) {
	if v.expanded == name {
		v.Collapse()
		return
	}
	v.Expand(name)
}

// ApplyReversal patches the view with the server's answer to a reversal.
// It reports false and changes nothing when the row is unknown or already reversed.
func (v *View) ApplyReversal(txn dto.TransactionResponse, person dto.PersonResponse) bool {
	g := v.Group(txn.Person)
	if g == nil {
		return false
	}
	idx := -1
	for i := range g.Transactions {
		if g.Transactions[i].ID == txn.ID {
			idx = i
			break
		}
	}
	if idx < 0 || g.Transactions[idx].Reversed {
		return false
	}

	row := g.Transactions[idx]
	undo := toDomain(row).SignedAmount()
	row.Reversed = true
	row.ReversedAt = txn.ReversedAt
	g.Transactions = append(g.Transactions[:idx], g.Transactions[idx+1:]...)
	g.Transactions = append(g.Transactions, row)
	g.sort()

	if person.Name == g.Person.Name {
		g.Person.Balance = person.Balance
	} else {
		g.Person.Balance = g.Person.Balance.Sub(undo)
	}
	g.recompute()
	v.recompute()
	return true
}
