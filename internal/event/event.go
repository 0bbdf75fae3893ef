package event

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ContentUploaded   Type = "content.uploaded"
	ContentLiked      Type = "content.liked"
	ContentSaved      Type = "content.saved"
	CommentCreated    Type = "comment.created"
	UserFollowed      Type = "user.followed"
	FeedbackSubmitted Type = "feedback.submitted"
)

// Event is a fact about something a user did. TargetID is the user the event is about
// (content owner, followed user), empty for feedback.
type Event struct {
	ID         string            `json:"id"`
	Type       Type              `json:"type"`
	ActorID    string            `json:"actorId,omitempty"`
	TargetID   string            `json:"targetId,omitempty"`
	ContentID  string            `json:"contentId,omitempty"`
	CommentID  string            `json:"commentId,omitempty"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

func New(t Type, actorID, targetID string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		TargetID:   targetID,
		Payload:    map[string]string{},
		OccurredAt: time.Now().UTC(),
	}
}

// Key partitions events of the same target together
func (e *Event) Key() string {
	if e.TargetID != "" {
		return e.TargetID
	}
	return e.ID
}

// Publisher hands events to whatever delivers them to handlers
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

type Handler interface {
	Handle(ctx context.Context, e *Event) error
}

type HandlerFunc func(ctx context.Context, e *Event) error

func (f HandlerFunc) Handle(ctx context.Context, e *Event) error {
	return f(ctx, e)
}

// Dispatcher routes an event to every handler registered for its type
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Type][]Handler)}
}

func (d *Dispatcher) Register(h Handler, types ...Type) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range types {
		d.handlers[t] = append(d.handlers[t], h)
	}
}

// Dispatch runs every handler even if one fails and joins the errors
func (d *Dispatcher) Dispatch(ctx context.Context, e *Event) error {
	d.mu.RLock()
	handlers := d.handlers[e.Type]
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s handler: %w", e.Type, err))
		}
	}
	return errors.Join(errs...)
}

// InlinePublisher dispatches in a background goroutine of the same process, used when
// Kafka is disabled
type InlinePublisher struct {
	dispatcher *Dispatcher
	wg         sync.WaitGroup
}

func NewInlinePublisher(d *Dispatcher) *InlinePublisher {
	return &InlinePublisher{dispatcher: d}
}

func (p *InlinePublisher) Publish(ctx context.Context, e *Event) error {
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.dispatcher.Dispatch(ctx, e); err != nil {
			log.ErrorContext(ctx, "event dispatch failed", "type", e.Type, "id", e.ID, "err", err)
		}
	}()
	return nil
}

// Wait blocks until in-flight dispatches finish
func (p *InlinePublisher) Wait() {
	p.wg.Wait()
}

// Publish logs instead of failing the caller. Events are side effects.
func Publish(ctx context.Context, p Publisher, e *Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.WarnContext(ctx, "event publish failed", "type", e.Type, "err", err)
	}
}
