package events

import (
	"context"
	"encoding/json"
	"time"

	"crm_backend/platform/logger"
)

// MessagePublisher sends a message body under a routing key.
// platform/broker.RabbitMQ satisfies it.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Envelope is the wire shape of a relayed event.
type Envelope struct {
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    Event     `json:"payload"`
}

// Relay forwards every domain event to an external broker. The routing key
// is the event name, so consumers can bind on patterns like "leads.#".
type Relay struct {
	pub MessagePublisher
	log *logger.Logger
}

// NewRelay creates a relay over pub.
func NewRelay(pub MessagePublisher, log *logger.Logger) *Relay {
	return &Relay{pub: pub, log: log}
}

// Register subscribes the relay to every event on bus.
func (r *Relay) Register(bus *InMemoryBus) {
	bus.SubscribeAll(r)
}

// Handle marshals the event and publishes it.
func (r *Relay) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(Envelope{
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt(),
		Payload:    event,
	})
	if err != nil {
		return err
	}

	if err := r.pub.Publish(ctx, event.EventName(), body); err != nil {
		r.log.Warn("event relay publish failed", "event", event.EventName(), "error", err)
		return err
	}
	return nil
}
