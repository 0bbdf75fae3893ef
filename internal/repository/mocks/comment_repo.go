package mocks

import (
	"Blips/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCommentRepo testify mock of repository.CommentRepo
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentRepo) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*model.Comment, error) {
	args := m.Called(ctx, id, text)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentRepo) ListByContent(ctx context.Context, contentID primitive.ObjectID) ([]*model.Comment, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepo) DeleteReplies(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepo) DeleteByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepo) CountByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepo) CountAllByContent(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]int64), args.Error(1)
}

func (m *MockCommentRepo) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, id, userID)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentRepo) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error) {
	args := m.Called(ctx, id, userID)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentRepo) ReconcileLikeCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func commentOrNil(v interface{}) *model.Comment {
	if v == nil {
		return nil
	}
	return v.(*model.Comment)
}
