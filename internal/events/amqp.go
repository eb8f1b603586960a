package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	StockUpdatedRoutingKey  = "stock.updated.v1"
	OrderPlacedRoutingKey   = "order.placed.v1"
	StockDepletedRoutingKey = "stock.depleted.v1"

	producerName   = "grocigo-api"
	publishTimeout = 3 * time.Second
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	EventName    string          `json:"eventName"`
	EventVersion int             `json:"eventVersion"`
	EventID      string          `json:"eventId"`
	Producer     string          `json:"producer"`
	PartitionKey string          `json:"partitionKey"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Payload      json.RawMessage `json:"payload"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events to a RabbitMQ topic exchange.
type Publisher struct {
	ch       channel
	exchange string
}

// NewPublisher opens a channel on conn and declares the topic exchange.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) Notify(ctx context.Context, ev Event) error {
	key, err := routingKey(ev.Type)
	if err != nil {
		return err
	}
	env, err := newEnvelope(ev)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", ev.Type, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
}

func routingKey(eventType string) (string, error) {
	switch eventType {
	case TypeStockUpdate:
		return StockUpdatedRoutingKey, nil
	case TypeOrderPlaced:
		return OrderPlacedRoutingKey, nil
	case TypeStockDepleted:
		return StockDepletedRoutingKey, nil
	}
	return "", fmt.Errorf("unknown event type %q", eventType)
}

func newEnvelope(ev Event) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Type, err)
	}

	partitionKey := ev.UserID
	switch {
	case ev.Product != nil:
		partitionKey = fmt.Sprintf("product-%d", ev.Product.ID)
	case ev.Order != nil:
		partitionKey = ev.Order.UserID
	}

	return Envelope{
		EventName:    ev.Type,
		EventVersion: 1,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		PartitionKey: partitionKey,
		OccurredAt:   ev.OccurredAt.UTC(),
		Payload:      payload,
	}, nil
}
