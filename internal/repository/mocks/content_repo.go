package mocks

import (
	"Blips/internal/model"
	"Blips/internal/repository"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockContentRepo testify mock of repository.ContentRepo
type MockContentRepo struct {
	mock.Mock
}

func (m *MockContentRepo) Create(ctx context.Context, content *model.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Content, error) {
	args := m.Called(ctx, id)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Content, error) {
	args := m.Called(ctx, id, set)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepo) ReferencesFile(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepo) Find(ctx context.Context, filter repository.ContentFilter, sortMode string, skip int64, limit int) ([]*model.Content, int64, error) {
	args := m.Called(ctx, filter, sortMode, skip, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.Content), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentRepo) FindSimilar(ctx context.Context, content *model.Content, limit int) ([]*model.Content, error) {
	args := m.Called(ctx, content, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Content), args.Error(1)
}

func (m *MockContentRepo) IncrementStat(ctx context.Context, id primitive.ObjectID, field string) (*model.Content, error) {
	args := m.Called(ctx, id, field)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentRepo) AddMember(ctx context.Context, id, userID primitive.ObjectID, ms repository.Membership) (*model.Content, error) {
	args := m.Called(ctx, id, userID, ms)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentRepo) RemoveMember(ctx context.Context, id, userID primitive.ObjectID, ms repository.Membership) (*model.Content, error) {
	args := m.Called(ctx, id, userID, ms)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentRepo) IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockContentRepo) SetCommentCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	args := m.Called(ctx, id, count)
	return args.Error(0)
}

func (m *MockContentRepo) SetCommentCounts(ctx context.Context, counts map[primitive.ObjectID]int64) (int64, error) {
	args := m.Called(ctx, counts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentRepo) ReconcileMembershipCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func contentOrNil(v interface{}) *model.Content {
	if v == nil {
		return nil
	}
	return v.(*model.Content)
}
