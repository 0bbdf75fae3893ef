package event

import (
	"Blips/internal/model"
	"Blips/internal/pkg/mail"
	"Blips/internal/repository"
	"context"
	"fmt"
	log "log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payload keys
const (
	PayloadActorName    = "actorName"
	PayloadTitle        = "title"
	PayloadParentAuthor = "parentAuthorId"
	PayloadSubject      = "subject"
	PayloadMessage      = "message"
	PayloadFeedbackType = "feedbackType"
	PayloadFrom         = "from"
	PayloadFeedbackID   = "feedbackId"
)

// NotificationHandler turns activity events into notifications for the affected users
type NotificationHandler struct {
	notificationRepo repository.NotificationRepo
	userRepo         repository.UserRepo
}

func NewNotificationHandler(notificationRepo repository.NotificationRepo, userRepo repository.UserRepo) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo, userRepo: userRepo}
}

// Types events this handler consumes
func (h *NotificationHandler) Types() []Type {
	return []Type{ContentUploaded, ContentLiked, ContentSaved, CommentCreated, UserFollowed}
}

func (h *NotificationHandler) Handle(ctx context.Context, e *Event) error {
	actor, err := primitive.ObjectIDFromHex(e.ActorID)
	if err != nil {
		return fmt.Errorf("bad actor id %q: %w", e.ActorID, err)
	}

	var recipients []string
	switch e.Type {
	case ContentUploaded:
		creator, err := h.userRepo.GetByID(ctx, actor)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return err
		}
		if e.Payload[PayloadActorName] == "" {
			e.Payload[PayloadActorName] = creator.Username
		}
		for _, follower := range creator.Followers {
			recipients = append(recipients, follower.Hex())
		}
	case CommentCreated:
		recipients = append(recipients, e.TargetID)
		if p := e.Payload[PayloadParentAuthor]; p != "" && p != e.TargetID {
			recipients = append(recipients, p)
		}
	default:
		recipients = append(recipients, e.TargetID)
	}

	list := make([]*model.Notification, 0, len(recipients))
	for _, r := range recipients {
		if n := h.build(actor, r, e); n != nil {
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		return nil
	}

	message := notificationMessage(e.Type, h.actorName(ctx, actor, e), e.Payload[PayloadTitle])
	for _, n := range list {
		n.Message = message
	}
	if len(list) == 1 {
		return h.notificationRepo.Create(ctx, list[0])
	}
	return h.notificationRepo.CreateMany(ctx, list)
}

func (h *NotificationHandler) actorName(ctx context.Context, actor primitive.ObjectID, e *Event) string {
	if name := e.Payload[PayloadActorName]; name != "" {
		return name
	}
	u, err := h.userRepo.GetByID(ctx, actor)
	if err != nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// build returns nil for self notifications and unusable recipients
func (h *NotificationHandler) build(actor primitive.ObjectID, recipientHex string, e *Event) *model.Notification {
	recipient, err := primitive.ObjectIDFromHex(recipientHex)
	if err != nil || recipient == actor {
		return nil
	}

	n := &model.Notification{
		Recipient: recipient,
		Actor:     actor,
		CreatedAt: e.OccurredAt,
	}
	switch e.Type {
	case ContentUploaded:
		n.Type = model.NotificationNewContent
	case ContentLiked:
		n.Type = model.NotificationLike
	case ContentSaved:
		n.Type = model.NotificationSave
	case CommentCreated:
		n.Type = model.NotificationComment
	case UserFollowed:
		n.Type = model.NotificationFollow
	default:
		return nil
	}
	if id, err := primitive.ObjectIDFromHex(e.ContentID); err == nil {
		n.Content = &id
	}
	if id, err := primitive.ObjectIDFromHex(e.CommentID); err == nil {
		n.Comment = &id
	}
	return n
}

func notificationMessage(t Type, name, title string) string {
	if name == "" {
		name = "Someone"
	}
	switch t {
	case ContentUploaded:
		return fmt.Sprintf("%s posted %q", name, title)
	case ContentLiked:
		return fmt.Sprintf("%s liked %q", name, title)
	case ContentSaved:
		return fmt.Sprintf("%s saved %q", name, title)
	case CommentCreated:
		return fmt.Sprintf("%s commented on %q", name, title)
	case UserFollowed:
		return fmt.Sprintf("%s started following you", name)
	}
	return ""
}

// FeedbackMailHandler forwards submitted feedback to the admin mailbox
type FeedbackMailHandler struct {
	mailer     mail.Mailer
	adminEmail string
}

func NewFeedbackMailHandler(mailer mail.Mailer, adminEmail string) *FeedbackMailHandler {
	return &FeedbackMailHandler{mailer: mailer, adminEmail: adminEmail}
}

func (h *FeedbackMailHandler) Handle(ctx context.Context, e *Event) error {
	if e.Type != FeedbackSubmitted {
		return nil
	}
	if !h.mailer.Enabled() || h.adminEmail == "" {
		log.DebugContext(ctx, "feedback mail skipped, mail not configured", "id", e.Payload[PayloadFeedbackID])
		return nil
	}

	body, err := mail.RenderFeedback(mail.FeedbackMail{
		ID:      e.Payload[PayloadFeedbackID],
		Type:    e.Payload[PayloadFeedbackType],
		Subject: e.Payload[PayloadSubject],
		From:    e.Payload[PayloadFrom],
		Message: e.Payload[PayloadMessage],
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("[Blips feedback] %s", e.Payload[PayloadSubject])
	return h.mailer.Send(ctx, h.adminEmail, subject, body)
}
