// Package eventbus publishes domain events to a message broker.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/todolist/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Message is the wire envelope of a published domain event.
type Message struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      Metadata        `json:"metadata,omitempty"`
}

// Metadata carries tracing ids along with the event.
type Metadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

// NewMessage wraps a domain event into an envelope. The event's exported
// fields become the payload.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	md := event.Metadata()
	return &Message{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata: Metadata{
			CorrelationID: md.CorrelationID,
			RequestID:     md.RequestID,
		},
	}, nil
}

// PublishEvent marshals a domain event and publishes it under its routing key.
func PublishEvent(ctx context.Context, publisher Publisher, event domain.DomainEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return publisher.Publish(ctx, msg.RoutingKey, body)
}
