// Package events announces committed transaction changes on a RabbitMQ topic exchange.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of *amqp091.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
	now      func() time.Time
}

var _ portssvc.TransactionEventPublisher = (*Publisher)(nil)

// Dial connects to the broker at url and declares exchange as a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(channel, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares exchange on an already open channel.
func NewPublisher(channel Channel, exchange string) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{channel: channel, exchange: exchange, now: time.Now}, nil
}

func (p *Publisher) PublishTransactionRecorded(ctx context.Context, txn domain.Transaction) error {
	return p.publish(ctx, RoutingKeyRecorded, txn)
}

func (p *Publisher) PublishTransactionReversed(ctx context.Context, txn domain.Transaction) error {
	return p.publish(ctx, RoutingKeyReversed, txn)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, txn domain.Transaction) error {
	now := p.now()
	body, err := NewTransactionEvent(routingKey, txn, now).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	slog.DebugContext(ctx, "Published transaction event",
		"routing_key", routingKey,
		"transaction_id", txn.TransactionID,
		"exchange", p.exchange)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
