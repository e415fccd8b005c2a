// Package events publishes insight lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"intent-insights/internal/common/config"
	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/models"
)

// Writer limits so a broker outage fails a publish quickly.
const (
	writeMaxAttempts = 2
	writeTimeout     = 2 * time.Second
)

// Publisher announces stored insights to downstream consumers.
type Publisher interface {
	PublishInsightSaved(ctx context.Context, event models.InsightSavedEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by document id so every event for one
// insight lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  writeMaxAttempts,
			WriteTimeout: writeTimeout,
			ReadTimeout:  writeTimeout,
		},
		topic: cfg.Topic,
	}
}

func (p *KafkaPublisher) PublishInsightSaved(ctx context.Context, event models.InsightSavedEvent) error {
	if event.EventType == "" {
		event.EventType = models.EventInsightSaved
	}

	data, err := json.Marshal(event)
	if err != nil {
		return apperrors.NewEventPublishFailedError(p.topic, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Insight.ID),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(event.EventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return apperrors.NewEventPublishFailedError(p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishInsightSaved(context.Context, models.InsightSavedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// New returns a Kafka publisher when enabled, otherwise a no-op.
func New(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}
