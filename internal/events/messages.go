package events

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	RoutingKeyRecorded = "transaction.recorded"
	RoutingKeyReversed = "transaction.reversed"
)

// TransactionEvent is the JSON body published for every committed transaction change.
type TransactionEvent struct {
	Event         string          `json:"event"`
	OwnerID       string          `json:"ownerId"`
	TransactionID int64           `json:"transactionId"`
	Person        string          `json:"person"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Reversed      bool            `json:"reversed"`
	ReversedAt    *time.Time      `json:"reversedAt,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewTransactionEvent(routingKey string, txn domain.Transaction, at time.Time) TransactionEvent {
	return TransactionEvent{
		Event:         routingKey,
		OwnerID:       txn.OwnerID,
		TransactionID: txn.TransactionID,
		Person:        txn.PersonName,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		Date:          txn.Date,
		Reversed:      txn.Reversed,
		ReversedAt:    txn.ReversedAt,
		OccurredAt:    at.UTC(),
	}
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
