package mocks

import (
	"Blips/internal/api/dto"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCommentService testify mock of service.CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListByContent(ctx context.Context, viewerID primitive.ObjectID, contentID string) ([]*dto.CommentDTO, error) {
	args := m.Called(ctx, viewerID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dto.CommentDTO), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, userID primitive.ObjectID, contentID string, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	args := m.Called(ctx, userID, contentID, req)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, userID primitive.ObjectID, commentID string, req *dto.UpdateCommentDTO) (*dto.CommentDTO, error) {
	args := m.Called(ctx, userID, commentID, req)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, commentID string) error {
	args := m.Called(ctx, userID, isAdmin, commentID)
	return args.Error(0)
}

func (m *MockCommentService) Like(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error) {
	args := m.Called(ctx, userID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentLikeDTO), args.Error(1)
}

func (m *MockCommentService) Unlike(ctx context.Context, userID primitive.ObjectID, commentID string) (*dto.CommentLikeDTO, error) {
	args := m.Called(ctx, userID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentLikeDTO), args.Error(1)
}

func commentOrNil(v any) *dto.CommentDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.CommentDTO)
}
