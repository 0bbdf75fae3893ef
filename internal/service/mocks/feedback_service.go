package mocks

import (
	"Blips/internal/api/dto"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockFeedbackService testify mock of service.FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Submit(ctx context.Context, userID primitive.ObjectID, req *dto.SubmitFeedbackDTO) (*dto.FeedbackDTO, error) {
	args := m.Called(ctx, userID, req)
	return feedbackOrNil(args.Get(0)), args.Error(1)
}

func (m *MockFeedbackService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]*dto.FeedbackDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.FeedbackDTO), args.Error(1)
}

func (m *MockFeedbackService) ListAll(ctx context.Context, q *dto.FeedbackQuery) (*dto.FeedbackListDTO, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackListDTO), args.Error(1)
}

func (m *MockFeedbackService) Get(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) (*dto.FeedbackDTO, error) {
	args := m.Called(ctx, userID, isAdmin, id)
	return feedbackOrNil(args.Get(0)), args.Error(1)
}

func (m *MockFeedbackService) Update(ctx context.Context, id string, req *dto.UpdateFeedbackDTO) (*dto.FeedbackDTO, error) {
	args := m.Called(ctx, id, req)
	return feedbackOrNil(args.Get(0)), args.Error(1)
}

func (m *MockFeedbackService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedbackService) SendTestEmail(ctx context.Context, to string) (string, error) {
	args := m.Called(ctx, to)
	return args.String(0), args.Error(1)
}

func feedbackOrNil(v any) *dto.FeedbackDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.FeedbackDTO)
}

// MockNotificationService testify mock of service.NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.NotificationListDTO, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.NotificationListDTO), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (*dto.UnreadDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UnreadDTO), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
