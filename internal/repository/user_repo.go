package repository

import (
	"Blips/internal/model"
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UserCollection = "users"

type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetBySupabaseID(ctx context.Context, supabaseID string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (emailTaken bool, usernameTaken bool, err error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.User, error)
	Follow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error)
	Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error)
}

type UserRepoImpl struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &UserRepoImpl{col: db.Collection(UserCollection)}
}

// Create inserts the user, email lower-cased
func (s *UserRepoImpl) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *UserRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername exact, case-insensitive match
func (s *UserRepoImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"username": exactInsensitive(username)})
}

func (s *UserRepoImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetByLogin matches either the email or the username
func (s *UserRepoImpl) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.TrimSpace(login)
	return s.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(login)},
		bson.M{"username": exactInsensitive(login)},
	}})
}

func (s *UserRepoImpl) GetBySupabaseID(ctx context.Context, supabaseID string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"supabaseId": supabaseID})
}

// GetByIDs loads users in one query, order not guaranteed
func (s *UserRepoImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	users := make([]*model.User, 0, len(ids))
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserRepoImpl) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cursor, err := s.col.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": exactInsensitive(username)},
	}}, options.Find().SetProjection(bson.M{"email": 1, "username": 1}).SetLimit(2))
	if err != nil {
		return false, false, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var emailTaken, usernameTaken bool
	for cursor.Next(ctx) {
		var u model.User
		if err = cursor.Decode(&u); err != nil {
			return false, false, err
		}
		if u.Email == email {
			emailTaken = true
		}
		if strings.EqualFold(u.Username, username) {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, cursor.Err()
}

func (s *UserRepoImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"username": exactInsensitive(username)}, options.Count().SetLimit(1))
	return n > 0, err
}

// Update applies set and returns the updated document
func (s *UserRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.User, error) {
	set["updatedAt"] = time.Now().UTC()
	var user model.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Follow adds the edge on both documents. Returns false when followerID already follows targetID.
// Meant to run inside a transaction.
func (s *UserRepoImpl) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": followerID, "following": bson.M{"$ne": targetID}},
		bson.M{"$addToSet": bson.M{"following": targetID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}

	res, err = s.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return true, nil
}

// Unfollow removes the edge from both documents. Returns false when there was no edge.
func (s *UserRepoImpl) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": followerID, "following": targetID},
		bson.M{"$pull": bson.M{"following": targetID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, nil
	}

	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserRepoImpl) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func exactInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(s)) + "$", Options: "i"}
}

// IsNotFound reports a missing document
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
