// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Header keys set on every published message in addition to the stored
// outbox headers (trace context).
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderKitchenID     = "kitchen_id"
)

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter returns a writer that waits for all in-sync replicas.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// Publisher writes outbox messages keyed by aggregate id, so events of one
// order or batch land on one partition in commit order.
type Publisher struct {
	writer Writer
	topic  string
	log    *slog.Logger
}

func NewPublisher(writer Writer, topic string, log *slog.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, log: log.With("component", "kafka_publisher")}
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publish writes messages in one call. The write is all or nothing from the
// caller's point of view: on error every message is retried later.
func (p *Publisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	out := make([]kafka.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, p.toKafka(m))
	}

	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		p.log.Error("publish failed", "count", len(out), "err", err)
		return fmt.Errorf("publish %d events to %s: %w", len(out), p.topic, err)
	}
	p.log.Debug("published", "count", len(out), "topic", p.topic)
	return nil
}

func (p *Publisher) toKafka(m ports.OutboxMessage) kafka.Message {
	headers := make([]kafka.Header, 0, len(m.Headers)+4)
	for k, v := range m.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	headers = append(headers,
		kafka.Header{Key: HeaderEventID, Value: []byte(m.ID.String())},
		kafka.Header{Key: HeaderEventType, Value: []byte(m.EventType)},
		kafka.Header{Key: HeaderAggregateType, Value: []byte(m.AggregateType)},
		kafka.Header{Key: HeaderKitchenID, Value: []byte(m.KitchenID.String())},
	)

	return kafka.Message{
		Topic:   p.topic,
		Key:     []byte(m.AggregateID.String()),
		Value:   m.Payload,
		Headers: headers,
		Time:    m.CreatedAt,
	}
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
