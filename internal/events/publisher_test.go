package events

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublisher_PublishesJSONEvents(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "money_tracker", "topic", true).Return(nil).Once()

	p, err := NewPublisher(ch, "money_tracker")
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	txn := domain.Transaction{
		TransactionID: 12,
		OwnerID:       "owner",
		PersonName:    "Bob",
		Type:          domain.TransactionTypeSend,
		Amount:        decimal.RequireFromString("9.99"),
		Date:          now,
	}

	var published amqp091.Publishing
	ch.On("PublishWithContext", "money_tracker", RoutingKeyRecorded, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).(amqp091.Publishing) }).
		Return(nil).Once()

	require.NoError(t, p.PublishTransactionRecorded(context.Background(), txn))

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp091.Persistent, published.DeliveryMode)
	event, err := TransactionEventFromJSON(published.Body)
	require.NoError(t, err)
	assert.Equal(t, RoutingKeyRecorded, event.Event)
	assert.Equal(t, int64(12), event.TransactionID)
	assert.Equal(t, "Bob", event.Person)
	assert.Equal(t, "9.99", event.Amount.String())
	assert.True(t, now.Equal(event.OccurredAt))

	ch.On("PublishWithContext", "money_tracker", RoutingKeyReversed, mock.Anything).Return(assert.AnError).Once()
	err = p.PublishTransactionReversed(context.Background(), txn)
	assert.ErrorIs(t, err, assert.AnError)

	ch.On("Close").Return(nil).Once()
	assert.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestNewPublisher_DeclareFailure(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "x", "topic", true).Return(assert.AnError).Once()

	_, err := NewPublisher(ch, "x")
	assert.ErrorIs(t, err, assert.AnError)
}
