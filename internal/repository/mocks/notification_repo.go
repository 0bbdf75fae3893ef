package mocks

import (
	"Blips/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockNotificationRepo testify mock of repository.NotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) CreateMany(ctx context.Context, list []*model.Notification) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, recipient primitive.ObjectID, limit int, offset int64) ([]*model.Notification, error) {
	args := m.Called(ctx, recipient, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountByRecipient(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error {
	args := m.Called(ctx, id, recipient)
	return args.Error(0)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}
