package kafka

import (
	"Blips/internal/event"
	"Blips/internal/pkg/logger"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "member" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Context() context.Context                 { return s.ctx }
func (s *fakeSession) MarkMessage(m *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, m)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "blips-events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestEventHandlerDispatchesAndSkipsGarbage(t *testing.T) {
	d := event.NewDispatcher()
	var got []*event.Event
	var traces []string
	var mu sync.Mutex
	d.Register(event.HandlerFunc(func(ctx context.Context, e *event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
		traces = append(traces, logger.TraceID(ctx))
		return nil
	}), event.ContentLiked)

	e := event.New(event.ContentLiked, "actor", "owner")
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 2)}
	claim.messages <- &sarama.ConsumerMessage{Offset: 1, Value: []byte("{not json")}
	claim.messages <- &sarama.ConsumerMessage{
		Offset:  2,
		Value:   raw,
		Headers: []*sarama.RecordHeader{{Key: []byte(headerTraceID), Value: []byte("trace-1")}},
	}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, NewEventHandler(d).ConsumeClaim(session, claim))

	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, "owner", got[0].TargetID)
	assert.Equal(t, []string{"trace-1"}, traces)
	require.Len(t, session.marked, 1)
	assert.Equal(t, int64(2), session.marked[0].Offset)
}

func TestProcessBatchGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	session := &fakeSession{ctx: context.Background()}
	msg := &sarama.ConsumerMessage{Offset: 7}

	processBatch(session, []*sarama.ConsumerMessage{msg}, func(context.Context, *sarama.ConsumerMessage) error {
		calls.Add(1)
		return errors.New("downstream unavailable")
	})

	assert.Equal(t, int32(maxRetries), calls.Load())
	require.Len(t, session.marked, 1)
}

func TestEventProducerPublish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	e := event.New(event.UserFollowed, "a", "b")
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded event.Event
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.ID != e.ID || decoded.Type != event.UserFollowed {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := NewEventProducerWith(sp, "blips-events")
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())
}

func TestEventProducerPublishError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewEventProducerWith(sp, "blips-events")
	err := p.Publish(context.Background(), event.New(event.ContentSaved, "a", "b"))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
