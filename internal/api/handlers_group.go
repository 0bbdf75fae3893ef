package api

import (
	"Blips/internal/api/handler"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/storage"
	"Blips/internal/service"
)

// HandlersGroup every initialized handler plus what the router needs to build middleware
type HandlersGroup struct {
	AuthHandler         *handler.AuthHandler
	ContentHandler      *handler.ContentHandler
	CommentHandler      *handler.CommentHandler
	UserHandler         *handler.UserHandler
	FeedbackHandler     *handler.FeedbackHandler
	NotificationHandler *handler.NotificationHandler
	HealthHandler       *handler.HealthHandler

	Tokens    *security.TokenManager
	Blacklist service.TokenBlacklist
	Store     storage.Storage
	Uploads   service.UploadRegistry
}

// RouterOptions server level settings the router depends on
type RouterOptions struct {
	ClientURL      string
	MaxUploadBytes int64
	// LocalUploadDir is served at /uploads when set
	LocalUploadDir string
}
