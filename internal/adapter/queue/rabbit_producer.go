package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/usecase"
)

const (
	defaultExchange    = "crm.events"
	customerCreatedKey = "customer.created"
	orderCreatedKey    = "order.created"
)

// RabbitProducer publishes entity-created events to a topic exchange.
// Consumers declare and bind their own queues; this side only owns the
// exchange.
type RabbitProducer struct {
	ch       *amqp.Channel
	exchange string
}

func NewRabbitProducer(ch *amqp.Channel, exchange string) (*RabbitProducer, error) {
	if exchange == "" {
		exchange = defaultExchange
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitProducer{ch: ch, exchange: exchange}, nil
}

func (p *RabbitProducer) CustomerCreated(ctx context.Context, c domain.Customer) error {
	return p.publish(ctx, customerCreatedKey, usecase.CustomerCreatedMsg{
		CustomerID: c.ID,
		Email:      c.Email,
	})
}

func (p *RabbitProducer) OrderCreated(ctx context.Context, o domain.Order) error {
	return p.publish(ctx, orderCreatedKey, usecase.OrderCreatedMsg{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.StringFixed(2),
	})
}

func (p *RabbitProducer) publish(ctx context.Context, key string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitProducer)(nil)
