package handler

import (
	"Blips/internal/api/dto"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/service"
	"errors"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const (
	profileImageField = "profileImage"
	maxAvatarBytes    = 5 << 20
)

type UserHandler struct {
	userSvc    service.UserService
	contentSvc service.ContentService
}

func NewUserHandler(userSvc service.UserService, contentSvc service.ContentService) *UserHandler {
	return &UserHandler{
		userSvc:    userSvc,
		contentSvc: contentSvc,
	}
}

func (s *UserHandler) GetProfile(c *gin.Context) {
	res, err := s.userSvc.GetProfile(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateProfile multipart form with an optional profileImage
func (s *UserHandler) UpdateProfile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1<<20)

	var req dto.UpdateProfileDTO
	if !bind(c, &req) {
		return
	}

	var avatar *service.Avatar
	fh, err := c.FormFile(profileImageField)
	switch {
	case err == nil:
		if fh.Size > maxAvatarBytes {
			response.Error(c, service.ErrFileTooLarge)
			return
		}
		f, openErr := fh.Open()
		if openErr != nil {
			response.Error(c, openErr)
			return
		}
		defer f.Close()

		mtype, sniffErr := mimetype.DetectReader(f)
		if sniffErr != nil {
			response.Error(c, sniffErr)
			return
		}
		if !strings.HasPrefix(mtype.String(), consts.MimePrefixImage) {
			response.Error(c, service.ErrFileTypeUnsupported)
			return
		}
		if _, err = f.Seek(0, 0); err != nil {
			response.Error(c, err)
			return
		}
		avatar = &service.Avatar{Reader: f, MimeType: mtype.String()}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.Error(c, err)
		return
	}

	res, err := s.userSvc.UpdateProfile(c.Request.Context(), currentUserID(c), &req, avatar)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Follow(c *gin.Context) {
	res, err := s.userSvc.Follow(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Unfollow(c *gin.Context) {
	res, err := s.userSvc.Unfollow(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Followers(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.userSvc.Followers(c.Request.Context(), c.Param("username"), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Following(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.userSvc.Following(c.Request.Context(), c.Param("username"), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// CreatorContent public content of :username
func (s *UserHandler) CreatorContent(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.contentSvc.ListByCreator(c.Request.Context(), currentUserID(c), c.Param("username"), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MyContent includes private items
func (s *UserHandler) MyContent(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.contentSvc.ListMine(c.Request.Context(), currentUserID(c), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Saved(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.contentSvc.ListSaved(c.Request.Context(), currentUserID(c), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
