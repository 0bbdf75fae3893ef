package handler

import (
	"Blips/internal/api/dto"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
}

func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		userSvc: userSvc,
	}
}

func (s *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

func (s *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if !bind(c, &req) {
		return
	}
	if req.Identifier() == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *AuthHandler) SupabaseLogin(c *gin.Context) {
	var req dto.SupabaseLoginDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.authSvc.SupabaseLogin(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *AuthHandler) Logout(c *gin.Context) {
	if err := s.authSvc.Logout(c.Request.Context(), c.GetString(consts.TokenKey)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CurrentUser GET /auth/user
func (s *AuthHandler) CurrentUser(c *gin.Context) {
	res, err := s.userSvc.GetCurrent(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
