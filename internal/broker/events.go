// Package broker publishes per-entity sync outcome events to RabbitMQ so
// downstream consumers (analytics cache invalidation, alerting) can react
// without polling sync_state. The publisher is optional: when no broker URL
// is configured the orchestrator simply runs without one.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/craftco/lightspeed-sync/internal/models"
)

const exchangeName = "retail.sync.topic"

// SyncEvent is the wire payload for one entity sync outcome.
type SyncEvent struct {
	CorrelationID    string            `json:"correlation_id"`
	EntityType       models.EntityType `json:"entity_type"`
	Status           models.SyncStatus `json:"status"`
	RecordsProcessed int               `json:"records_processed"`
	DurationSeconds  float64           `json:"duration_seconds"`
	Timestamp        time.Time         `json:"timestamp"`
	Error            string            `json:"error,omitempty"`
}

// EventPublisher pushes sync events to a topic exchange with publisher
// confirms enabled.
type EventPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewEventPublisher connects, opens a channel and declares the exchange.
func NewEventPublisher(url string, l *slog.Logger) (*EventPublisher, error) {
	c, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := c.Channel()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		ch.Close()
		c.Close()
		return nil, fmt.Errorf("failed to declare topic exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		c.Close()
		return nil, fmt.Errorf("failed to activate publisher confirms: %w", err)
	}

	l.Info("Connected to RabbitMQ for sync events", "exchange", exchangeName)
	return &EventPublisher{conn: c, channel: ch, logger: l}, nil
}

// Publish sends one event, routing key sync.<entity>.<status>, and blocks
// until the broker confirms it.
func (p *EventPublisher) Publish(ctx context.Context, event SyncEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize sync event: %w", err)
	}

	routingKey := fmt.Sprintf("sync.%s.%s", event.EntityType, event.Status)

	deferred, err := p.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			Headers: amqp.Table{
				"correlation_id": event.CorrelationID,
			},
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish call failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-deferred.Done():
		if !deferred.Acked() {
			return fmt.Errorf("RabbitMQ NACK received: event not persisted")
		}
		return nil
	case <-time.After(10 * time.Second):
		return fmt.Errorf("publisher confirm timeout")
	}
}

// Close gracefully shuts down the broker resources.
func (p *EventPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.logger.Info("Terminating sync event publisher")
		if p.channel != nil {
			p.channel.Close()
		}
		if p.conn != nil {
			p.conn.Close()
		}
	})
	return nil
}
