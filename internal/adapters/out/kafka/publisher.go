// Package kafka publishes domain events onto the internal event stream. The
// stream mirrors what webhook subscribers receive and feeds internal
// consumers; it is best-effort and never blocks webhook fan-out.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/event"

	"github.com/segmentio/kafka-go"
)

// Publisher writes event envelopes to a Kafka topic. Messages are keyed by
// tenant id, so every tenant's events stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		logger: logger.With("component", "kafka-publisher"),
	}
}

// Publish writes one envelope to the stream.
func (p *Publisher) Publish(ctx context.Context, envelope event.Envelope) error {
	value, err := json.Marshal(envelope.Payload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(envelope.TenantID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(envelope.Type.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write event to stream: %w", err)
	}

	p.logger.Debug("event published",
		"event", envelope.Type.String(),
		"tenant_id", envelope.TenantID.String(),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
