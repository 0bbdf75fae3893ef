package kafka

import (
	"Blips/internal/api/config"
	"Blips/internal/event"
	"Blips/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const headerTraceID = "trace_id"

// EventProducer publishes domain events to a single topic keyed by target id
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(cfg config.KafkaConfig) (*EventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewEventProducerWith(producer, cfg.Topic), nil
}

func NewEventProducerWith(producer sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

func (s *EventProducer) Publish(ctx context.Context, e *event.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(e.Key()),
		Value: sarama.ByteEncoder(value),
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(headerTraceID), Value: []byte(traceID)}}
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send %s: %w", e.Type, err)
	}
	log.DebugContext(ctx, "event published", "type", e.Type, "partition", partition, "offset", offset)
	return nil
}

func (s *EventProducer) Close() error {
	return s.producer.Close()
}
