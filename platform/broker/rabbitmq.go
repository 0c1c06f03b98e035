// Package broker publishes messages to RabbitMQ.
// This is part of the platform layer and contains no business logic.
package broker

import (
	"context"
	"fmt"
	"sync"

	"crm_backend/platform/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DLXName receives messages rejected by consumers of the event exchange.
	DLXName = "crm.events.dlx"
	// DLQName collects dead-lettered events for inspection.
	DLQName = "crm.events.dlq"
)

// RabbitMQ owns one connection and one publishing channel.
type RabbitMQ struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewRabbitMQ dials the broker and declares the event topology: a durable
// topic exchange plus a dead-letter exchange and queue.
func NewRabbitMQ(cfg config.BrokerConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.GetRabbitMQURL())
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	exchange := cfg.GetRabbitMQExchange()
	if err := setupTopology(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq topology: %w", err)
	}

	return &RabbitMQ{conn: conn, ch: ch, exchange: exchange}, nil
}

func setupTopology(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(DLXName, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, "", DLXName, false, nil); err != nil {
		return err
	}
	return ch.ExchangeDeclare(exchange, "topic", true, false, false, false, amqp.Table{
		"alternate-exchange": DLXName,
	})
}

// Publish sends a persistent JSON message with the given routing key.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.ch.PublishWithContext(ctx,
		r.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (r *RabbitMQ) Close() error {
	if r == nil {
		return nil
	}
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
