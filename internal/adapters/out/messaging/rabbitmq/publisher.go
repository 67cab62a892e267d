// Package rabbitmq publishes order events to a durable topic exchange and waits
// for the broker to confirm each message.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"orders/internal/adapters/out/messaging"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "order_events"
	DefaultRoutingKey = order.EventTypeStatusChanged
)

var ErrPublishNotConfirmed = errors.New("broker did not confirm the message")

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher owns one confirm-mode channel on a shared connection. The channel is
// reopened on the next publish if the broker closed it.
type Publisher struct {
	conn       *amqp.Connection
	exchange   string
	routingKey string
	logger     *slog.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.Table{"connection_name": "orders"},
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return conn, nil
}

func NewPublisher(conn *amqp.Connection, exchange, routingKey string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}
	p := &Publisher{
		conn:       conn,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With("component", "rabbitmq_publisher"),
	}
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) open() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("enable confirm mode: %w", err)
	}

	p.ch = ch
	return nil
}

// PublishStatusChanged sends the event and blocks until the broker acks it.
func (p *Publisher) PublishStatusChanged(ctx context.Context, event order.StatusChangedEvent) error {
	body, err := messaging.EncodeStatusChanged(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.logger.Warn("channel closed, reopening")
		if err := p.open(); err != nil {
			return err
		}
	}

	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  messaging.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID.String(),
			Timestamp:    event.OccurredAt,
			Type:         event.Type(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type(), err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm for %s: %w", event.EventID, err)
	}
	if !acked {
		return fmt.Errorf("%w: event %s", ErrPublishNotConfirmed, event.EventID)
	}

	p.logger.DebugContext(ctx, "event published",
		"event_id", event.EventID.String(),
		"order_id", event.OrderID.String(),
	)
	return nil
}

// Close closes the channel. The connection belongs to the caller.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}
