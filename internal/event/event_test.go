package event

import (
	"Blips/internal/model"
	"Blips/internal/repository/mocks"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	var calls int32
	d.Register(HandlerFunc(func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}), ContentLiked, ContentSaved)
	d.Register(HandlerFunc(func(ctx context.Context, e *Event) error {
		return errors.New("boom")
	}), ContentSaved)

	require.NoError(t, d.Dispatch(context.Background(), New(ContentLiked, "a", "b")))
	err := d.Dispatch(context.Background(), New(ContentSaved, "a", "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	require.NoError(t, d.Dispatch(context.Background(), New(UserFollowed, "a", "b")))
}

func TestInlinePublisher(t *testing.T) {
	d := NewDispatcher()
	var got atomic.Value
	d.Register(HandlerFunc(func(ctx context.Context, e *Event) error {
		got.Store(e.ID)
		return nil
	}), CommentCreated)

	p := NewInlinePublisher(d)
	ctx, cancel := context.WithCancel(context.Background())
	e := New(CommentCreated, "a", "b")
	require.NoError(t, p.Publish(ctx, e))
	cancel()
	p.Wait()

	assert.Equal(t, e.ID, got.Load())
}

func TestEventKey(t *testing.T) {
	e := New(FeedbackSubmitted, "", "")
	assert.Equal(t, e.ID, e.Key())
	e.TargetID = "target"
	assert.Equal(t, "target", e.Key())
}

func TestNotificationHandler_Like(t *testing.T) {
	notifications := new(mocks.MockNotificationRepo)
	users := new(mocks.MockUserRepo)
	h := NewNotificationHandler(notifications, users)

	actor, owner, content := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	e := New(ContentLiked, actor.Hex(), owner.Hex())
	e.ContentID = content.Hex()
	e.Payload[PayloadActorName] = "neo"
	e.Payload[PayloadTitle] = "City"

	notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.Recipient == owner && n.Actor == actor && n.Type == model.NotificationLike &&
			n.Content != nil && *n.Content == content && n.Message == `neo liked "City"`
	})).Return(nil).Once()

	require.NoError(t, h.Handle(context.Background(), e))
	notifications.AssertExpectations(t)
}

func TestNotificationHandler_SkipsSelf(t *testing.T) {
	notifications := new(mocks.MockNotificationRepo)
	h := NewNotificationHandler(notifications, new(mocks.MockUserRepo))

	actor := primitive.NewObjectID()
	require.NoError(t, h.Handle(context.Background(), New(ContentSaved, actor.Hex(), actor.Hex())))
	notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationHandler_CommentReply(t *testing.T) {
	notifications := new(mocks.MockNotificationRepo)
	users := new(mocks.MockUserRepo)
	h := NewNotificationHandler(notifications, users)

	actor, owner, parentAuthor := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	e := New(CommentCreated, actor.Hex(), owner.Hex())
	e.Payload[PayloadParentAuthor] = parentAuthor.Hex()
	e.Payload[PayloadTitle] = "Dune"

	users.On("GetByID", mock.Anything, actor).Return(&model.User{ID: actor, Username: "trinity"}, nil)
	notifications.On("CreateMany", mock.Anything, mock.MatchedBy(func(list []*model.Notification) bool {
		return len(list) == 2 && list[0].Recipient == owner && list[1].Recipient == parentAuthor &&
			list[0].Message == `trinity commented on "Dune"`
	})).Return(nil).Once()

	require.NoError(t, h.Handle(context.Background(), e))
	notifications.AssertExpectations(t)
}

func TestNotificationHandler_NewContentFansOut(t *testing.T) {
	notifications := new(mocks.MockNotificationRepo)
	users := new(mocks.MockUserRepo)
	h := NewNotificationHandler(notifications, users)

	creator := &model.User{ID: primitive.NewObjectID(), Username: "morpheus", Followers: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}}
	users.On("GetByID", mock.Anything, creator.ID).Return(creator, nil)
	notifications.On("CreateMany", mock.Anything, mock.MatchedBy(func(list []*model.Notification) bool {
		return len(list) == 2 && list[0].Type == model.NotificationNewContent && list[1].Message == `morpheus posted "Red pill"`
	})).Return(nil).Once()

	e := New(ContentUploaded, creator.ID.Hex(), "")
	e.Payload[PayloadTitle] = "Red pill"
	require.NoError(t, h.Handle(context.Background(), e))
	notifications.AssertExpectations(t)
}

type fakeMailer struct {
	enabled bool
	to      string
	subject string
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) Send(_ context.Context, to, subject, _ string) error {
	f.to, f.subject = to, subject
	return nil
}

func TestFeedbackMailHandler(t *testing.T) {
	m := &fakeMailer{enabled: true}
	h := NewFeedbackMailHandler(m, "admin@blips.test")

	e := New(FeedbackSubmitted, "", "")
	e.Payload[PayloadSubject] = "Broken upload"
	require.NoError(t, h.Handle(context.Background(), e))
	assert.Equal(t, "admin@blips.test", m.to)
	assert.Equal(t, "[Blips feedback] Broken upload", m.subject)

	off := &fakeMailer{}
	require.NoError(t, NewFeedbackMailHandler(off, "admin@blips.test").Handle(context.Background(), e))
	assert.Empty(t, off.to)
}
