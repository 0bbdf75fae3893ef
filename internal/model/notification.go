package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationLike       NotificationType = "like"
	NotificationSave       NotificationType = "save"
	NotificationComment    NotificationType = "comment"
	NotificationFollow     NotificationType = "follow"
	NotificationNewContent NotificationType = "new_content"
)

// Notification activity entry shown to Recipient
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Recipient primitive.ObjectID  `bson:"recipient"`
	Actor     primitive.ObjectID  `bson:"actor"`
	Type      NotificationType    `bson:"type"`
	Content   *primitive.ObjectID `bson:"content,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty"`
	Message   string              `bson:"message"`
	Read      bool                `bson:"read"`
	CreatedAt time.Time           `bson:"createdAt"`
}
