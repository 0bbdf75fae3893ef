package kafka

import (
	"Blips/internal/event"
	"Blips/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EventHandler consumes domain events and feeds them to the dispatcher
type EventHandler struct {
	dispatcher *event.Dispatcher
}

func NewEventHandler(dispatcher *event.Dispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

func (s *EventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("event consumer setup")
	return nil
}

func (s *EventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("event consumer cleanup")
	return nil
}

func (s *EventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.handle)
}

// handle undecodable messages are logged and skipped
func (s *EventHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var e event.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		log.Error("skip undecodable event", "offset", msg.Offset, "err", err)
		return nil
	}
	if e.Payload == nil {
		e.Payload = map[string]string{}
	}

	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == headerTraceID {
			ctx = logger.WithTraceID(ctx, string(h.Value))
		}
	}
	return s.dispatcher.Dispatch(ctx, &e)
}
