package mocks

import (
	"Blips/internal/api/dto"
	"Blips/internal/service"
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAuthService testify mock of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthDTO, error) {
	args := m.Called(ctx, req)
	return authOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthDTO, error) {
	args := m.Called(ctx, req)
	return authOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) SupabaseLogin(ctx context.Context, req *dto.SupabaseLoginDTO) (*dto.AuthDTO, error) {
	args := m.Called(ctx, req)
	return authOrNil(args.Get(0)), args.Error(1)
}

func authOrNil(v any) *dto.AuthDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.AuthDTO)
}

// MockUserService testify mock of service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*dto.UserDTO, error) {
	args := m.Called(ctx, viewerID, username)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) GetCurrent(ctx context.Context, userID primitive.ObjectID) (*dto.UserDTO, error) {
	args := m.Called(ctx, userID)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.UpdateProfileDTO, avatar *service.Avatar) (*dto.UserDTO, error) {
	args := m.Called(ctx, userID, req, avatar)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Follow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error) {
	args := m.Called(ctx, userID, targetID)
	return followOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Unfollow(ctx context.Context, userID primitive.ObjectID, targetID string) (*dto.FollowResultDTO, error) {
	args := m.Called(ctx, userID, targetID)
	return followOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Followers(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error) {
	args := m.Called(ctx, username, page, limit)
	return userListOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Following(ctx context.Context, username string, page, limit int) (*dto.UserListDTO, error) {
	args := m.Called(ctx, username, page, limit)
	return userListOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v any) *dto.UserDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.UserDTO)
}

func followOrNil(v any) *dto.FollowResultDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.FollowResultDTO)
}

func userListOrNil(v any) *dto.UserListDTO {
	if v == nil {
		return nil
	}
	return v.(*dto.UserListDTO)
}
