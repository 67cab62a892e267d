// Package kafka publishes order events to a Kafka topic keyed by order id, so
// every event of one order lands on the same partition in order.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orders/internal/adapters/out/messaging"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

const DefaultTopic = order.EventTypeStatusChanged

var _ ports.EventPublisher = (*Publisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher writes synchronously and waits for all in-sync replicas.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return newPublisher(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, logger)
}

func newPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger.With("component", "kafka_publisher")}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, event order.StatusChangedEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", event.Type(), err)
	}

	p.logger.DebugContext(ctx, "event published",
		"event_id", event.EventID.String(),
		"order_id", event.OrderID.String(),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toMessage(event order.StatusChangedEvent) (kafkago.Message, error) {
	body, err := messaging.EncodeStatusChanged(event)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(event.OrderID.String()),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "event_type", Value: []byte(event.Type())},
			{Key: "content_type", Value: []byte(messaging.ContentType)},
		},
	}, nil
}
