package handler

import (
	"Blips/internal/api/dto"
	"Blips/internal/pkg/response"
	"Blips/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Submit accepts guests, they must leave an email
func (s *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.SubmitFeedbackDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.feedbackSvc.Submit(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

func (s *FeedbackHandler) ListMine(c *gin.Context) {
	res, err := s.feedbackSvc.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *FeedbackHandler) ListAll(c *gin.Context) {
	var q dto.FeedbackQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := s.feedbackSvc.ListAll(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *FeedbackHandler) Get(c *gin.Context) {
	res, err := s.feedbackSvc.Get(c.Request.Context(), currentUserID(c), isAdmin(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *FeedbackHandler) Update(c *gin.Context) {
	var req dto.UpdateFeedbackDTO
	if !bind(c, &req) {
		return
	}
	res, err := s.feedbackSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *FeedbackHandler) Delete(c *gin.Context) {
	if err := s.feedbackSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *FeedbackHandler) TestEmail(c *gin.Context) {
	var req dto.TestEmailDTO
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	to, err := s.feedbackSvc.SendTestEmail(c.Request.Context(), req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"to": to})
}
