package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedbackType string

const (
	FeedbackBug     FeedbackType = "bug"
	FeedbackFeature FeedbackType = "feature"
	FeedbackContent FeedbackType = "content"
	FeedbackAccount FeedbackType = "account"
	FeedbackOther   FeedbackType = "other"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackBug, FeedbackFeature, FeedbackContent, FeedbackAccount, FeedbackOther:
		return true
	}
	return false
}

type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackReviewed FeedbackStatus = "reviewed"
	FeedbackResolved FeedbackStatus = "resolved"
	FeedbackRejected FeedbackStatus = "rejected"
)

// ParseFeedbackStatus accepts the canonical values plus the legacy UI names
// inProgress (reviewed) and closed (resolved)
func ParseFeedbackStatus(s string) (FeedbackStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return FeedbackPending, true
	case "reviewed", "inprogress", "in-progress", "in_progress":
		return FeedbackReviewed, true
	case "resolved", "closed":
		return FeedbackResolved, true
	case "rejected":
		return FeedbackRejected, true
	}
	return "", false
}

// Feedback from a signed-in user (User set) or a guest (Email set)
type Feedback struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Type          FeedbackType        `bson:"type"`
	Subject       string              `bson:"subject"`
	Message       string              `bson:"message"`
	User          *primitive.ObjectID `bson:"user,omitempty"`
	Email         string              `bson:"email,omitempty"`
	Status        FeedbackStatus      `bson:"status"`
	AdminResponse string              `bson:"adminResponse,omitempty"`
	Metadata      map[string]any      `bson:"metadata,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt"`
}

func (f *Feedback) OwnedBy(uid primitive.ObjectID) bool {
	return f.User != nil && !uid.IsZero() && *f.User == uid
}
