package kafka

import (
	"Blips/internal/api/config"
	"Blips/internal/event"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager runs the event consumer group
type ConsumerManager struct {
	topic         string
	eventConsumer sarama.ConsumerGroup
	eventHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(cfg config.KafkaConfig, dispatcher *event.Dispatcher) (*ConsumerManager, error) {
	eventConsumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &ConsumerManager{
		topic:         cfg.Topic,
		eventConsumer: eventConsumer,
		eventHandler:  NewEventHandler(dispatcher),
	}, nil
}

// Start blocks until ctx is cancelled
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.eventConsumer.Errors() {
			log.Error("kafka consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Event consumer started", "topic", m.topic)
		for {
			if err := m.eventConsumer.Consume(ctx, []string{m.topic}, m.eventHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.eventConsumer.Close(); err != nil {
		log.Error("Failed to close event consumer", "err", err)
	}
	return nil
}
