package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestContentTypePrefix(t *testing.T) {
	assert.Equal(t, "images/", ContentTypeImage.Prefix())
	assert.Equal(t, "shorts/", ContentTypeShort.Prefix())
	assert.Equal(t, "films/", ContentTypeFilm.Prefix())
	assert.False(t, ContentType("video").Valid())
	assert.True(t, ContentTypeFilm.IsVideo())
	assert.False(t, ContentTypeImage.IsVideo())
}

func TestParseFeedbackStatus(t *testing.T) {
	tests := map[string]FeedbackStatus{
		"pending":    FeedbackPending,
		"inProgress": FeedbackReviewed,
		"reviewed":   FeedbackReviewed,
		"closed":     FeedbackResolved,
		"Resolved":   FeedbackResolved,
		"rejected":   FeedbackRejected,
	}
	for in, want := range tests {
		got, ok := ParseFeedbackStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseFeedbackStatus("archived")
	assert.False(t, ok)
}

func TestContentVisibility(t *testing.T) {
	owner := primitive.NewObjectID()
	c := &Content{Creator: owner, IsPublic: false}

	assert.True(t, c.VisibleTo(owner))
	assert.False(t, c.VisibleTo(primitive.NewObjectID()))
	assert.False(t, c.VisibleTo(primitive.NilObjectID))

	c.IsPublic = true
	assert.True(t, c.VisibleTo(primitive.NilObjectID))
}

func TestCommentRootID(t *testing.T) {
	root := &Comment{ID: primitive.NewObjectID()}
	reply := &Comment{ID: primitive.NewObjectID(), ParentComment: &root.ID}

	assert.Equal(t, root.ID, root.RootID())
	assert.Equal(t, root.ID, reply.RootID())
	assert.True(t, reply.IsReply())
}
