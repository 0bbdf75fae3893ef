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

const CommentCollection = "comments"

type CommentRepo interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*model.Comment, error)
	ListByContent(ctx context.Context, contentID primitive.ObjectID) ([]*model.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteReplies(ctx context.Context, parentID primitive.ObjectID) (int64, error)
	DeleteByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error)
	CountByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error)
	CountAllByContent(ctx context.Context) (map[primitive.ObjectID]int64, error)
	AddLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error)
	RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error)
	ReconcileLikeCounters(ctx context.Context) (int64, error)
}

type CommentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &CommentRepoImpl{col: db.Collection(CommentCollection)}
}

func (s *CommentRepoImpl) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt, comment.UpdatedAt = now, now
	if comment.LikedBy == nil {
		comment.LikedBy = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *CommentRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentRepoImpl) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*model.Comment, error) {
	var comment model.Comment
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByContent every comment of a content, oldest first
func (s *CommentRepoImpl) ListByContent(ctx context.Context, contentID primitive.ObjectID) ([]*model.Comment, error) {
	cursor, err := s.col.Find(ctx,
		bson.M{"content": contentID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	comments := make([]*model.Comment, 0)
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *CommentRepoImpl) DeleteReplies(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"parentComment": parentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *CommentRepoImpl) DeleteByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"content": contentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *CommentRepoImpl) CountByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"content": contentID})
}

// CountAllByContent comment totals grouped by content id
func (s *CommentRepoImpl) CountAllByContent(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$content", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	counts := make(map[primitive.ObjectID]int64)
	for cursor.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err = cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cursor.Err()
}

// AddLike ErrNoDocuments means the comment is missing or already liked by userID
func (s *CommentRepoImpl) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error) {
	return s.updateLike(ctx,
		bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likedBy": userID}, "$inc": bson.M{"likes": 1}},
	)
}

// RemoveLike ErrNoDocuments means the comment is missing or not liked by userID
func (s *CommentRepoImpl) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*model.Comment, error) {
	return s.updateLike(ctx,
		bson.M{"_id": id, "likedBy": userID},
		bson.M{"$pull": bson.M{"likedBy": userID}, "$inc": bson.M{"likes": -1}},
	)
}

func (s *CommentRepoImpl) ReconcileLikeCounters(ctx context.Context) (int64, error) {
	likes := bson.M{"$size": bson.M{"$ifNull": bson.A{"$likedBy", bson.A{}}}}
	res, err := s.col.UpdateMany(ctx,
		bson.M{"$expr": bson.M{"$ne": bson.A{"$likes", likes}}},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{"likes": likes}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *CommentRepoImpl) updateLike(ctx context.Context, filter, update bson.M) (*model.Comment, error) {
	var comment model.Comment
	err := s.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
