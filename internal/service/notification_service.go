package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type NotificationService interface {
	List(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.NotificationListDTO, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (*dto.UnreadDTO, error)
	MarkRead(ctx context.Context, userID primitive.ObjectID, id string) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
	userRepo         repository.UserRepo
	store            storage.Storage
}

func NewNotificationService(notificationRepo repository.NotificationRepo, userRepo repository.UserRepo, store storage.Storage) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		store:            store,
	}
}

// List newest first, actors resolved
func (s *notificationServiceImpl) List(ctx context.Context, userID primitive.ObjectID, page, limit int) (*dto.NotificationListDTO, error) {
	page, limit, skip := util.Pagination(page, limit, consts.DefaultPageSize, consts.MaxPageSize)

	var (
		list   []*model.Notification
		total  int64
		unread int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.notificationRepo.List(gctx, userID, limit, skip)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.notificationRepo.CountByRecipient(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = s.notificationRepo.CountUnread(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	for _, n := range list {
		ids = append(ids, n.Actor)
	}
	users, err := loadUsers(ctx, s.userRepo, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, &dto.NotificationDTO{
			ID:        n.ID.Hex(),
			Type:      string(n.Type),
			Actor:     summaryOf(s.store, users, n.Actor),
			Content:   hexPtr(n.Content),
			Comment:   hexPtr(n.Comment),
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	return &dto.NotificationListDTO{
		Notifications: res,
		Unread:        unread,
		Pagination:    pageDTO(page, limit, total),
	}, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (*dto.UnreadDTO, error) {
	n, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadDTO{Unread: n}, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID primitive.ObjectID, id string) error {
	nid, ok := util.ParseObjectID(id)
	if !ok {
		return ErrInvalidID
	}
	if err := s.notificationRepo.MarkRead(ctx, nid, userID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.notificationRepo.MarkAllRead(ctx, userID)
	return err
}
