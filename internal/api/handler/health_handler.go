package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	client *mongoDB.Client
}

func NewHealthHandler(client *mongoDB.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// Health reports database reachability, 503 while Mongo is down
func (s *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if s.client != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
