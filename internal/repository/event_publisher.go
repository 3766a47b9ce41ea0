package repository

import (
	"context"
	"time"

	"StepPull/internal/domain/models"
	pkgkafka "StepPull/pkg/kafka"
)

// observationEvent is the wire form published for each resolved realtime
// observation.
type observationEvent struct {
	Steps      int64         `json:"steps"`
	Source     models.Source `json:"source"`
	WindowEnd  time.Time     `json:"window_end"`
	ObservedAt time.Time     `json:"observed_at"`
}

// KafkaEventPublisher publishes step observations to a Kafka topic. It also
// satisfies logger.Publisher so the log collector can flush aggregated error
// batches through the same producer.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishObservation emits one observation, keyed by source so per-source
// ordering survives partitioning.
func (p *KafkaEventPublisher) PublishObservation(ctx context.Context, obs models.StepObservation) error {
	event := observationEvent{
		Steps:      obs.Steps,
		Source:     obs.Source,
		WindowEnd:  obs.WindowEnd,
		ObservedAt: time.Now(),
	}
	return p.producer.Publish(ctx, p.topic, []byte(obs.Source), event)
}

// PublishMessage implements logger.Publisher for aggregated log batches.
func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// Close closes the underlying producer.
func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
