package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// NoopPublisher is a no-op publisher used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message but doesn't actually publish.
func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.DebugContext(ctx, "noop publish",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}

// MemoryPublisher keeps published messages in process, in publish order.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryPublisher creates an empty in-process publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish decodes and records the envelope. Payloads that are not an
// envelope are recorded with only the routing key and raw payload.
func (p *MemoryPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		msg = Message{Payload: append(json.RawMessage(nil), payload...)}
	}
	if msg.RoutingKey == "" {
		msg.RoutingKey = routingKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

// Messages returns a copy of everything published so far.
func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

// RoutingKeys returns the routing keys of published messages in order.
func (p *MemoryPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.messages))
	for i, m := range p.messages {
		keys[i] = m.RoutingKey
	}
	return keys
}

// Close is a no-op.
func (p *MemoryPublisher) Close() error {
	return nil
}
