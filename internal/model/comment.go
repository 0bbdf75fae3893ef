package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment on a content. ParentComment, when set, always points at a top-level comment.
type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Content       primitive.ObjectID   `bson:"content"`
	User          primitive.ObjectID   `bson:"user"`
	ParentComment *primitive.ObjectID  `bson:"parentComment"`
	Text          string               `bson:"text"`
	Likes         int64                `bson:"likes"`
	LikedBy       []primitive.ObjectID `bson:"likedBy"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (c *Comment) IsReply() bool {
	return c.ParentComment != nil && !c.ParentComment.IsZero()
}

// RootID is the id of the top-level comment of this thread
func (c *Comment) RootID() primitive.ObjectID {
	if c.IsReply() {
		return *c.ParentComment
	}
	return c.ID
}

func (c *Comment) LikedByUser(uid primitive.ObjectID) bool {
	return !uid.IsZero() && containsID(c.LikedBy, uid)
}
