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

const FeedbackCollection = "feedbacks"

type FeedbackFilter struct {
	Status model.FeedbackStatus
	Type   model.FeedbackType
}

type FeedbackRepo interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Feedback, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Feedback, error)
	List(ctx context.Context, filter FeedbackFilter, skip int64, limit int) ([]*model.Feedback, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Feedback, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type FeedbackRepoImpl struct {
	col *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) FeedbackRepo {
	return &FeedbackRepoImpl{col: db.Collection(FeedbackCollection)}
}

func (s *FeedbackRepoImpl) Create(ctx context.Context, feedback *model.Feedback) error {
	now := time.Now().UTC()
	feedback.CreatedAt, feedback.UpdatedAt = now, now
	if feedback.Status == "" {
		feedback.Status = model.FeedbackPending
	}
	res, err := s.col.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *FeedbackRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackRepoImpl) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Feedback, error) {
	return s.find(ctx, bson.M{"user": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *FeedbackRepoImpl) List(ctx context.Context, filter FeedbackFilter, skip int64, limit int) ([]*model.Feedback, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*model.Feedback{}, 0, nil
	}

	items, err := s.find(ctx, query, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *FeedbackRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Feedback, error) {
	set["updatedAt"] = time.Now().UTC()
	var feedback model.Feedback
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&feedback)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *FeedbackRepoImpl) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*model.Feedback, error) {
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := make([]*model.Feedback, 0)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
