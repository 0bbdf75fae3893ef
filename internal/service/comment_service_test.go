package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/event"
	"Blips/internal/model"
	"Blips/internal/repository/mocks"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

func TestBuildCommentTree(t *testing.T) {
	contentID := primitive.NewObjectID()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	comment := func(min int, parent *primitive.ObjectID) *model.Comment {
		return &model.Comment{
			ID:            primitive.NewObjectID(),
			Content:       contentID,
			User:          primitive.NewObjectID(),
			ParentComment: parent,
			Text:          "c",
			CreatedAt:     base.Add(time.Duration(min) * time.Minute),
		}
	}
	first := comment(0, nil)
	second := comment(1, nil)
	gone := primitive.NewObjectID()
	replyA := comment(2, &first.ID)
	replyB := comment(3, &first.ID)
	orphan := comment(4, &gone)

	tree := buildCommentTree(newTestStore(t), []*model.Comment{first, second, replyA, replyB, orphan}, nil, primitive.NilObjectID)

	require.Len(t, tree, 2)
	assert.Equal(t, second.ID.Hex(), tree[0].ID)
	assert.Equal(t, first.ID.Hex(), tree[1].ID)
	assert.Empty(t, tree[0].Replies)
	require.Len(t, tree[1].Replies, 2)
	assert.Equal(t, replyA.ID.Hex(), tree[1].Replies[0].ID)
	assert.Equal(t, replyB.ID.Hex(), tree[1].Replies[1].ID)
	assert.Equal(t, "deleted", tree[1].User.Username)
}

func TestCreateReplyAttachesToRoot(t *testing.T) {
	comments := new(mocks.MockCommentRepo)
	contents := new(mocks.MockContentRepo)
	users := new(mocks.MockUserRepo)
	publisher := &recordingPublisher{}
	svc := NewCommentService(comments, contents, users, passTx{}, newTestStore(t), publisher)
	ctx := context.Background()

	author := primitive.NewObjectID()
	content := &model.Content{ID: primitive.NewObjectID(), Creator: primitive.NewObjectID(), IsPublic: true}
	rootID := primitive.NewObjectID()
	parent := &model.Comment{ID: primitive.NewObjectID(), Content: content.ID, User: primitive.NewObjectID(), ParentComment: &rootID}

	contents.On("GetByID", ctx, content.ID).Return(content, nil)
	comments.On("GetByID", ctx, parent.ID).Return(parent, nil)
	var created *model.Comment
	comments.On("Create", ctx, mock.AnythingOfType("*model.Comment")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.Comment) }).
		Return(nil)
	contents.On("IncrementComments", ctx, content.ID, int64(1)).Return(nil)
	users.On("GetByIDs", ctx, mock.Anything).Return([]*model.User{{ID: author, Username: "dave"}}, nil)

	res, err := svc.Create(ctx, author, content.ID.Hex(), &dto.CreateCommentDTO{Text: " nice ", ParentComment: parent.ID.Hex()})
	require.NoError(t, err)
	require.NotNil(t, created.ParentComment)
	assert.Equal(t, rootID, *created.ParentComment)
	assert.Equal(t, "nice", res.Text)
	assert.Equal(t, "dave", res.User.Username)

	require.Equal(t, []event.Type{event.CommentCreated}, publisher.types())
	assert.Equal(t, parent.User.Hex(), publisher.events[0].Payload[event.PayloadParentAuthor])
	contents.AssertExpectations(t)
}

func TestCreateCommentOnPrivateContent(t *testing.T) {
	comments := new(mocks.MockCommentRepo)
	contents := new(mocks.MockContentRepo)
	svc := NewCommentService(comments, contents, new(mocks.MockUserRepo), passTx{}, newTestStore(t), nil)
	ctx := context.Background()

	content := &model.Content{ID: primitive.NewObjectID(), Creator: primitive.NewObjectID()}
	contents.On("GetByID", ctx, content.ID).Return(content, nil)

	_, err := svc.Create(ctx, primitive.NewObjectID(), content.ID.Hex(), &dto.CreateCommentDTO{Text: "hi"})
	assert.ErrorIs(t, err, ErrContentNotFound)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteCommentPermissions(t *testing.T) {
	ctx := context.Background()
	author := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	content := &model.Content{ID: primitive.NewObjectID(), Creator: creator, IsPublic: true}
	comment := &model.Comment{ID: primitive.NewObjectID(), Content: content.ID, User: author}

	t.Run("stranger", func(t *testing.T) {
		comments := new(mocks.MockCommentRepo)
		contents := new(mocks.MockContentRepo)
		svc := NewCommentService(comments, contents, new(mocks.MockUserRepo), passTx{}, newTestStore(t), nil)
		comments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		contents.On("GetByID", ctx, content.ID).Return(content, nil)

		err := svc.Delete(ctx, primitive.NewObjectID(), false, comment.ID.Hex())
		assert.ErrorIs(t, err, ForbiddenError)
		comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("content creator removes thread", func(t *testing.T) {
		comments := new(mocks.MockCommentRepo)
		contents := new(mocks.MockContentRepo)
		svc := NewCommentService(comments, contents, new(mocks.MockUserRepo), passTx{}, newTestStore(t), nil)
		comments.On("GetByID", ctx, comment.ID).Return(comment, nil)
		contents.On("GetByID", ctx, content.ID).Return(content, nil)
		comments.On("Delete", ctx, comment.ID).Return(nil)
		comments.On("DeleteReplies", ctx, comment.ID).Return(int64(3), nil)
		comments.On("CountByContent", ctx, content.ID).Return(int64(5), nil)
		contents.On("SetCommentCount", ctx, content.ID, int64(5)).Return(nil)

		require.NoError(t, svc.Delete(ctx, creator, false, comment.ID.Hex()))
		comments.AssertExpectations(t)
		contents.AssertExpectations(t)
	})

	t.Run("already gone", func(t *testing.T) {
		comments := new(mocks.MockCommentRepo)
		svc := NewCommentService(comments, new(mocks.MockContentRepo), new(mocks.MockUserRepo), passTx{}, newTestStore(t), nil)
		comments.On("GetByID", ctx, comment.ID).Return(nil, mongoDB.ErrNoDocuments)

		assert.ErrorIs(t, svc.Delete(ctx, author, false, comment.ID.Hex()), ErrCommentNotFound)
	})
}

func TestCommentLikeGuard(t *testing.T) {
	comments := new(mocks.MockCommentRepo)
	svc := NewCommentService(comments, new(mocks.MockContentRepo), new(mocks.MockUserRepo), passTx{}, newTestStore(t), nil)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	comment := &model.Comment{ID: primitive.NewObjectID(), Likes: 1}

	comments.On("AddLike", ctx, comment.ID, userID).Return(nil, mongoDB.ErrNoDocuments)
	comments.On("GetByID", ctx, comment.ID).Return(comment, nil)

	_, err := svc.Like(ctx, userID, comment.ID.Hex())
	assert.ErrorIs(t, err, ErrCommentAlreadyLiked)
}
