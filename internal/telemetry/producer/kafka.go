package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/samber/oops"
	"github.com/segmentio/kafka-go"

	"authify/backend/internal/telemetry/domain"
)

// writer is the subset of *kafka.Writer the producer uses.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer implements Producer with segmentio/kafka-go.
type KafkaProducer struct {
	writer writer
	topic  string
}

// NewKafkaProducer returns a producer writing to topic. It returns nil when brokers or topic
// are empty, which callers treat as "Kafka disabled".
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

// Emit writes event as JSON, keyed by account ID so one account's events stay ordered.
func (p *KafkaProducer) Emit(ctx context.Context, event *domain.Event) error {
	if p == nil || p.writer == nil || event == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return oops.Code("TELEMETRY_ENCODE_FAILED").Wrap(err)
	}
	var key []byte
	if event.AccountID != "" {
		key = []byte(event.AccountID)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, kafka.Message{Key: key, Value: payload}); err != nil {
		return oops.Code("TELEMETRY_KAFKA_WRITE_FAILED").With("topic", p.topic).Wrap(err)
	}
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
