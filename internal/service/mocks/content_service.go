package mocks

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/service"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockContentService testify mock of service.ContentService
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Upload(ctx context.Context, userID primitive.ObjectID, file *service.UploadedFile, req *dto.UploadContentDTO) (*dto.ContentDTO, error) {
	args := m.Called(ctx, userID, file, req)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) Discard(ctx context.Context, file *service.UploadedFile) {
	m.Called(ctx, file)
}

func (m *MockContentService) Explore(ctx context.Context, viewerID primitive.ObjectID, q *dto.ExploreQuery) (*dto.ContentListDTO, error) {
	args := m.Called(ctx, viewerID, q)
	return listOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) ListByType(ctx context.Context, viewerID primitive.ObjectID, t model.ContentType, page, limit int) (*dto.ContentListDTO, error) {
	args := m.Called(ctx, viewerID, t, page, limit)
	return listOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) ListByCreator(ctx context.Context, viewerID primitive.ObjectID, username string, page, limit int) (*dto.ContentListDTO, error) {
	args := m.Called(ctx, viewerID, username, page, limit)
	return listOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) ListMine(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error) {
	args := m.Called(ctx, userID, page, limit)
	return listOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) ListSaved(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.ContentListDTO, error) {
	args := m.Called(ctx, userID, page, limit)
	return listOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) GetByID(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.ContentDetailDTO, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ContentDetailDTO), args.Error(1)
}

func (m *MockContentService) Update(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string, req *dto.UpdateContentDTO) (*dto.ContentDTO, error) {
	args := m.Called(ctx, userID, isAdmin, id, req)
	return contentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) Delete(ctx context.Context, userID primitive.ObjectID, isAdmin bool, id string) error {
	args := m.Called(ctx, userID, isAdmin, id)
	return args.Error(0)
}

func (m *MockContentService) Like(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResultDTO), args.Error(1)
}

func (m *MockContentService) Unlike(ctx context.Context, userID primitive.ObjectID, id string) (*dto.LikeResultDTO, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResultDTO), args.Error(1)
}

func (m *MockContentService) Save(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SaveResultDTO), args.Error(1)
}

func (m *MockContentService) Unsave(ctx context.Context, userID primitive.ObjectID, id string) (*dto.SaveResultDTO, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SaveResultDTO), args.Error(1)
}

func (m *MockContentService) Share(ctx context.Context, id string) (*dto.ShareResultDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ShareResultDTO), args.Error(1)
}

func (m *MockContentService) Stream(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error) {
	args := m.Called(ctx, viewerID, id)
	return locationOrNil(args.Get(0)), args.Error(1)
}

func (m *MockContentService) Download(ctx context.Context, viewerID primitive.ObjectID, id string) (*dto.MediaLocationDTO, error) {
	args := m.Called(ctx, viewerID, id)
	return locationOrNil(args.Get(0)), args.Error(1)
}

func contentOrNil(v any) *dto.ContentDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.ContentDTO)
}

func listOrNil(v any) *dto.ContentListDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.ContentListDTO)
}

func locationOrNil(v any) *dto.MediaLocationDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.MediaLocationDTO)
}
