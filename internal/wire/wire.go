package wire

import (
	"Blips/internal/api"
	"Blips/internal/api/config"
	"Blips/internal/api/handler"
	"Blips/internal/event"
	"Blips/internal/job"
	"Blips/internal/pkg/cron"
	"Blips/internal/pkg/kafka"
	"Blips/internal/pkg/mail"
	"Blips/internal/pkg/mongo"
	"Blips/internal/pkg/redis"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/supabase"
	"Blips/internal/repository"
	"Blips/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer top level components main runs
type ApplicationContainer struct {
	Router   *gin.Engine
	CronMgr  *cron.Manager
	Consumer *kafka.ConsumerManager
	// Producer is nil when events are dispatched in-process
	Producer *kafka.EventProducer
	Inline   *event.InlinePublisher
}

func BuildApplication(client *mongoDB.Client, db *mongoDB.Database, store storage.Storage, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	contentRepo := repository.NewContentRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	tx := mongo.NewTransactor(client)

	blacklist := redis.NewTokenBlacklist()
	locker := redis.NewLocker()
	uploads := redis.NewUploadRegistry()
	mailer := mail.NewSMTPMailer(cfg.Email)
	tokens := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	dispatcher := event.NewDispatcher()
	notificationHandler := event.NewNotificationHandler(notificationRepo, userRepo)
	dispatcher.Register(notificationHandler, notificationHandler.Types()...)
	dispatcher.Register(event.NewFeedbackMailHandler(mailer, cfg.Email.AdminEmail), event.FeedbackSubmitted)

	app := &ApplicationContainer{}
	var publisher event.Publisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewEventProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		consumer, err := kafka.NewConsumerManager(cfg.Kafka, dispatcher)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		app.Producer, app.Consumer = producer, consumer
		publisher = producer
		log.Info("Events published to kafka", "topic", cfg.Kafka.Topic)
	} else {
		app.Inline = event.NewInlinePublisher(dispatcher)
		publisher = app.Inline
		log.Info("Events dispatched in-process")
	}

	authService := service.NewAuthService(userRepo, tokens, blacklist, supabase.NewClient(cfg.Supabase), store)
	userService := service.NewUserService(userRepo, contentRepo, tx, store, publisher)
	contentService := service.NewContentService(contentRepo, commentRepo, userRepo, tx, store, uploads, publisher, service.ContentOptions{
		ClientURL:  cfg.Server.ClientURL,
		PresignTTL: time.Duration(cfg.Storage.PresignMinutes) * time.Minute,
	})
	commentService := service.NewCommentService(commentRepo, contentRepo, userRepo, tx, store, publisher)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, locker, mailer, publisher, store, cfg.Email.AdminEmail)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, store)

	handlers := &api.HandlersGroup{
		AuthHandler:         handler.NewAuthHandler(authService, userService),
		ContentHandler:      handler.NewContentHandler(contentService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		UserHandler:         handler.NewUserHandler(userService, contentService),
		FeedbackHandler:     handler.NewFeedbackHandler(feedbackService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		HealthHandler:       handler.NewHealthHandler(client),
		Tokens:              tokens,
		Blacklist:           blacklist,
		Store:               store,
		Uploads:             uploads,
	}

	opts := api.RouterOptions{
		ClientURL:      cfg.Server.ClientURL,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		opts.LocalUploadDir = local.BasePath()
	}
	app.Router = api.SetupRouter(handlers, opts)

	app.CronMgr = cron.NewCronManager(cfg.Jobs,
		job.NewCounterReconcileJob(contentRepo, commentRepo, locker),
		job.NewUploadCleanupJob(uploads, contentRepo, store, locker, time.Duration(cfg.Jobs.UploadTTLHours)*time.Hour),
	)

	return app, nil
}

// Close flushes in-flight events
func (a *ApplicationContainer) Close() {
	if a.Inline != nil {
		a.Inline.Wait()
	}
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			log.Error("Failed to close kafka producer", "err", err)
		}
	}
}
