package handler

import (
	"Blips/internal/api/dto"
	"Blips/internal/pkg/response"
	"Blips/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (s *CommentHandler) ListByContent(c *gin.Context) {
	res, err := s.commentSvc.ListByContent(c.Request.Context(), currentUserID(c), c.Param("contentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.commentSvc.Create(c.Request.Context(), currentUserID(c), c.Param("contentId"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

func (s *CommentHandler) Update(c *gin.Context) {
	var req dto.UpdateCommentDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.commentSvc.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CommentHandler) Delete(c *gin.Context) {
	if err := s.commentSvc.Delete(c.Request.Context(), currentUserID(c), isAdmin(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) Like(c *gin.Context) {
	res, err := s.commentSvc.Like(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CommentHandler) Unlike(c *gin.Context) {
	res, err := s.commentSvc.Unlike(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
