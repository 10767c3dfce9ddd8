// Package events publishes domain events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smart-reminder/pkg/config"
	"smart-reminder/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types
const (
	ContentGenerated      = "content.generated"
	MerchantRegistered    = "merchant.registered"
	MerchantStatusChanged = "merchant.status_changed"
	MerchantDeleted       = "merchant.deleted"
)

// Event is one domain fact keyed by merchant
type Event struct {
	Type       string         `json:"type"`
	MerchantID string         `json:"merchant_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// New returns a Kafka publisher, or Noop when no brokers are configured
func New(cfg config.KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return Noop{}
	}
	return NewKafka(cfg.Brokers, cfg.Topic)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes events as JSON messages keyed by merchant id
type Kafka struct {
	writer messageWriter
}

// NewKafka builds a publisher for topic
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	v, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.MerchantID),
		Value: v,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}); err != nil {
		return fmt.Errorf("publish event %s: %w", e.Type, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Noop drops every event
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// PublishAsync publishes on a detached goroutine and logs failures; it never blocks the caller
func PublishAsync(ctx context.Context, p Publisher, e Event) {
	log := logger.FromContext(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(pubCtx, e); err != nil {
			log.Warn("Failed to publish event",
				zap.String("type", e.Type),
				zap.String("merchant_id", e.MerchantID),
				zap.Error(err))
		}
	}()
}
