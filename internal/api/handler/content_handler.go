package handler

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/pkg/util"
	"Blips/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentSvc service.ContentService
}

func NewContentHandler(contentSvc service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// Upload runs after UploadMiddleware stored the file
func (s *ContentHandler) Upload(c *gin.Context) {
	file, _ := c.Get(consts.UploadedFileKey)
	uploaded, _ := file.(*service.UploadedFile)

	var req dto.UploadContentDTO
	err := c.ShouldBind(&req)
	if err == nil {
		err = util.ValidateDTO(&req)
	}
	if err != nil {
		s.contentSvc.Discard(c.Request.Context(), uploaded)
		response.Error(c, err)
		return
	}
	if req.ContentType == "" && uploaded != nil {
		req.ContentType = string(uploaded.ContentType)
	}

	res, err := s.contentSvc.Upload(c.Request.Context(), currentUserID(c), uploaded, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

func (s *ContentHandler) Explore(c *gin.Context) {
	var q dto.ExploreQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.contentSvc.Explore(c.Request.Context(), currentUserID(c), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Shorts(c *gin.Context) {
	s.listByType(c, model.ContentTypeShort)
}

func (s *ContentHandler) Films(c *gin.Context) {
	s.listByType(c, model.ContentTypeFilm)
}

func (s *ContentHandler) Images(c *gin.Context) {
	s.listByType(c, model.ContentTypeImage)
}

func (s *ContentHandler) listByType(c *gin.Context, t model.ContentType) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.contentSvc.ListByType(c.Request.Context(), currentUserID(c), t, q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) GetByID(c *gin.Context) {
	res, err := s.contentSvc.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Update(c *gin.Context) {
	var req dto.UpdateContentDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.contentSvc.Update(c.Request.Context(), currentUserID(c), isAdmin(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Delete(c *gin.Context) {
	if err := s.contentSvc.Delete(c.Request.Context(), currentUserID(c), isAdmin(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ContentHandler) Like(c *gin.Context) {
	res, err := s.contentSvc.Like(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Unlike(c *gin.Context) {
	res, err := s.contentSvc.Unlike(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Save(c *gin.Context) {
	res, err := s.contentSvc.Save(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Unsave(c *gin.Context) {
	res, err := s.contentSvc.Unsave(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ContentHandler) Share(c *gin.Context) {
	res, err := s.contentSvc.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Stream serves local files directly (Range aware), otherwise returns the presigned URL
func (s *ContentHandler) Stream(c *gin.Context) {
	loc, err := s.contentSvc.Stream(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if loc.Path != "" {
		c.File(loc.Path)
		return
	}
	response.Success(c, loc)
}

// Download attachment for local files, redirect to the presigned URL otherwise
func (s *ContentHandler) Download(c *gin.Context) {
	loc, err := s.contentSvc.Download(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if loc.Path != "" {
		c.FileAttachment(loc.Path, loc.FileName)
		return
	}
	c.Redirect(http.StatusFound, loc.URL)
}
