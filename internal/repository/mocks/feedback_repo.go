package mocks

import (
	"Blips/internal/model"
	"Blips/internal/repository"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockFeedbackRepo testify mock of repository.FeedbackRepo
type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Feedback, error) {
	args := m.Called(ctx, id)
	return feedbackOrNil(args.Get(0)), args.Error(1)
}

func (m *MockFeedbackRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Feedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Feedback), args.Error(1)
}

func (m *MockFeedbackRepo) List(ctx context.Context, filter repository.FeedbackFilter, skip int64, limit int) ([]*model.Feedback, int64, error) {
	args := m.Called(ctx, filter, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Feedback), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeedbackRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Feedback, error) {
	args := m.Called(ctx, id, set)
	return feedbackOrNil(args.Get(0)), args.Error(1)
}

func (m *MockFeedbackRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func feedbackOrNil(v interface{}) *model.Feedback {
	if v == nil {
		return nil
	}
	return v.(*model.Feedback)
}
