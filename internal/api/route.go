package api

import (
	"Blips/internal/api/middleware"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	r.MaxMultipartMemory = 32 << 20

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.ClientURL))
	logger.SetupGin(r)

	if opts.LocalUploadDir != "" {
		r.Static("/uploads", opts.LocalUploadDir)
	}

	auth := middleware.AuthMiddleware(group.Tokens, group.Blacklist)
	authOpt := middleware.AuthOptionalMiddleware(group.Tokens, group.Blacklist)
	admin := middleware.CheckRoles(consts.RoleAdmin)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", group.HealthHandler.Health)
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    http.StatusOK,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.AuthHandler.Register)
			authGroup.POST("/login", group.AuthHandler.Login)
			authGroup.POST("/supabase", group.AuthHandler.SupabaseLogin)
			authGroup.POST("/logout", auth, group.AuthHandler.Logout)
			authGroup.GET("/user", auth, group.AuthHandler.CurrentUser)
		}

		contentGroup := apiGroup.Group("/content")
		{
			authOptGroup := contentGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("/shorts", group.ContentHandler.Shorts)
				authOptGroup.GET("/films", group.ContentHandler.Films)
				authOptGroup.GET("/images", group.ContentHandler.Images)
				authOptGroup.GET("/explore", group.ContentHandler.Explore)
				authOptGroup.GET("/:id", group.ContentHandler.GetByID)
				authOptGroup.GET("/:id/stream", group.ContentHandler.Stream)
				authOptGroup.GET("/:id/download", group.ContentHandler.Download)
				authOptGroup.POST("/:id/share", group.ContentHandler.Share)
			}

			authGroup := contentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("/upload",
					middleware.UploadMiddleware(group.Store, group.Uploads, opts.MaxUploadBytes),
					group.ContentHandler.Upload)
				authGroup.PUT("/:id", group.ContentHandler.Update)
				authGroup.DELETE("/:id", group.ContentHandler.Delete)
				authGroup.POST("/:id/like", group.ContentHandler.Like)
				authGroup.POST("/:id/unlike", group.ContentHandler.Unlike)
				authGroup.POST("/:id/save", group.ContentHandler.Save)
				authGroup.POST("/:id/unsave", group.ContentHandler.Unsave)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/content/:contentId", authOpt, group.CommentHandler.ListByContent)

			authGroup := commentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("/content/:contentId", group.CommentHandler.Create)
				authGroup.PUT("/:id", group.CommentHandler.Update)
				authGroup.DELETE("/:id", group.CommentHandler.Delete)
				authGroup.POST("/:id/like", group.CommentHandler.Like)
				authGroup.POST("/:id/unlike", group.CommentHandler.Unlike)
			}
		}

		userGroup := apiGroup.Group("/users")
		{
			// fixed paths are registered before /:username
			authGroup := userGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.PUT("/profile", group.UserHandler.UpdateProfile)
				authGroup.GET("/content", group.UserHandler.MyContent)
				authGroup.GET("/saved", group.UserHandler.Saved)
				authGroup.POST("/follow/:id", group.UserHandler.Follow)
				authGroup.POST("/unfollow/:id", group.UserHandler.Unfollow)
			}

			authOptGroup := userGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("/:username", group.UserHandler.GetProfile)
				authOptGroup.GET("/:username/content", group.UserHandler.CreatorContent)
				authOptGroup.GET("/:username/followers", group.UserHandler.Followers)
				authOptGroup.GET("/:username/following", group.UserHandler.Following)
			}
		}

		feedbackGroup := apiGroup.Group("/feedback")
		{
			feedbackGroup.POST("/submit", authOpt, group.FeedbackHandler.Submit)

			authGroup := feedbackGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/user", group.FeedbackHandler.ListMine)
				authGroup.GET("/:id", group.FeedbackHandler.Get)
			}

			adminGroup := authGroup.Group("")
			adminGroup.Use(admin)
			{
				adminGroup.GET("/all", group.FeedbackHandler.ListAll)
				adminGroup.PUT("/:id", group.FeedbackHandler.Update)
				adminGroup.DELETE("/:id", group.FeedbackHandler.Delete)
				adminGroup.POST("/test-email", group.FeedbackHandler.TestEmail)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(auth)
		{
			notificationGroup.GET("", group.NotificationHandler.List)
			notificationGroup.GET("/unread", group.NotificationHandler.Unread)
			notificationGroup.POST("/read-all", group.NotificationHandler.MarkAllRead)
			notificationGroup.POST("/:id/read", group.NotificationHandler.MarkRead)
		}
	}

	return r
}
