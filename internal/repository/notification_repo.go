package repository

import (
	"Blips/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const NotificationCollection = "notifications"

type NotificationRepo interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateMany(ctx context.Context, list []*model.Notification) error
	List(ctx context.Context, recipient primitive.ObjectID, limit int, offset int64) ([]*model.Notification, error)
	CountByRecipient(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{col: db.Collection(NotificationCollection)}
}

func (s *notificationRepoImpl) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// CreateMany fan-out insert, used for follower notifications
func (s *notificationRepoImpl) CreateMany(ctx context.Context, list []*model.Notification) error {
	if len(list) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(list))
	for _, n := range list {
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		docs = append(docs, n)
	}
	_, err := s.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// List newest first
func (s *notificationRepoImpl) List(ctx context.Context, recipient primitive.ObjectID, limit int, offset int64) ([]*model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*model.Notification, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *notificationRepoImpl) CountByRecipient(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient": recipient})
}

func (s *notificationRepoImpl) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient": recipient, "read": false})
}

// MarkRead only matches notifications owned by recipient
func (s *notificationRepoImpl) MarkRead(ctx context.Context, id, recipient primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
