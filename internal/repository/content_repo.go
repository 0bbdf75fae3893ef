package repository

import (
	"Blips/internal/model"
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ContentCollection = "contents"

// Sort modes accepted by Find
const (
	SortTrending    = "trending"
	SortNewest      = "newest"
	SortPopular     = "popular"
	SortRecommended = "recommended"
)

// Membership pairs an id array with the counter mirroring its size
type Membership struct {
	Array   string
	Counter string
}

var (
	LikeMembership = Membership{Array: "likedBy", Counter: "stats.likes"}
	SaveMembership = Membership{Array: "savedBy", Counter: "stats.saves"}
)

// Stat counters that are incremented without a membership guard
const (
	StatViews     = "stats.views"
	StatShares    = "stats.shares"
	StatDownloads = "stats.downloads"
)

// ContentFilter zero fields are ignored. Creators == nil means any creator, an empty
// non-nil slice matches nothing.
type ContentFilter struct {
	ContentType    model.ContentType
	Category       string
	Tags           []string
	Search         string
	Creators       []primitive.ObjectID
	SavedBy        primitive.ObjectID
	IncludePrivate bool
}

type ContentRepo interface {
	Create(ctx context.Context, content *model.Content) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Content, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Content, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	ReferencesFile(ctx context.Context, key string) (bool, error)
	Find(ctx context.Context, filter ContentFilter, sortMode string, skip int64, limit int) ([]*model.Content, int64, error)
	FindSimilar(ctx context.Context, content *model.Content, limit int) ([]*model.Content, error)
	IncrementStat(ctx context.Context, id primitive.ObjectID, field string) (*model.Content, error)
	AddMember(ctx context.Context, id, userID primitive.ObjectID, m Membership) (*model.Content, error)
	RemoveMember(ctx context.Context, id, userID primitive.ObjectID, m Membership) (*model.Content, error)
	IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error
	SetCommentCount(ctx context.Context, id primitive.ObjectID, count int64) error
	SetCommentCounts(ctx context.Context, counts map[primitive.ObjectID]int64) (int64, error)
	ReconcileMembershipCounters(ctx context.Context) (int64, error)
}

type ContentRepoImpl struct {
	col *mongo.Collection
}

func NewContentRepo(db *mongo.Database) ContentRepo {
	return &ContentRepoImpl{col: db.Collection(ContentCollection)}
}

func (s *ContentRepoImpl) Create(ctx context.Context, content *model.Content) error {
	now := time.Now().UTC()
	content.CreatedAt, content.UpdatedAt = now, now
	if content.Tags == nil {
		content.Tags = []string{}
	}
	if content.LikedBy == nil {
		content.LikedBy = []primitive.ObjectID{}
	}
	if content.SavedBy == nil {
		content.SavedBy = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, content)
	if err != nil {
		return err
	}
	content.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ContentRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Content, error) {
	var content model.Content
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *ContentRepoImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Content, error) {
	set["updatedAt"] = time.Now().UTC()
	var content model.Content
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *ContentRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *ContentRepoImpl) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

// ReferencesFile reports whether any content uses key as its file or thumbnail
func (s *ContentRepoImpl) ReferencesFile(ctx context.Context, key string) (bool, error) {
	filter := bson.M{"$or": bson.A{bson.M{"fileUrl": key}, bson.M{"thumbnailUrl": key}}}
	n, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

// Find returns one page of matches and the total match count
func (s *ContentRepoImpl) Find(ctx context.Context, filter ContentFilter, sortMode string, skip int64, limit int) ([]*model.Content, int64, error) {
	query := buildContentFilter(filter)
	if query == nil {
		return []*model.Content{}, 0, nil
	}

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 || skip >= total {
		return []*model.Content{}, total, nil
	}

	opts := options.Find().
		SetSort(sortSpec(sortMode)).
		SetSkip(skip).
		SetLimit(int64(limit))
	items, err := s.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindSimilar public content sharing the category or any tag, newest popular first
func (s *ContentRepoImpl) FindSimilar(ctx context.Context, content *model.Content, limit int) ([]*model.Content, error) {
	or := bson.A{}
	if content.Category != "" {
		or = append(or, bson.M{"category": content.Category})
	}
	if len(content.Tags) > 0 {
		or = append(or, bson.M{"tags": bson.M{"$in": content.Tags}})
	}
	if len(or) == 0 {
		return []*model.Content{}, nil
	}

	query := bson.M{
		"_id":      bson.M{"$ne": content.ID},
		"isPublic": true,
		"$or":      or,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "stats.views", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return s.find(ctx, query, opts)
}

// IncrementStat bumps an unguarded counter and returns the updated document
func (s *ContentRepoImpl) IncrementStat(ctx context.Context, id primitive.ObjectID, field string) (*model.Content, error) {
	var content model.Content
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// AddMember adds userID to the array and increments its counter in one atomic update.
// ErrNoDocuments means the content is missing or userID is already a member.
func (s *ContentRepoImpl) AddMember(ctx context.Context, id, userID primitive.ObjectID, m Membership) (*model.Content, error) {
	var content model.Content
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, m.Array: bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{m.Array: userID},
			"$inc":      bson.M{m.Counter: 1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// RemoveMember is the inverse of AddMember. ErrNoDocuments means the content is missing
// or userID is not a member.
func (s *ContentRepoImpl) RemoveMember(ctx context.Context, id, userID primitive.ObjectID, m Membership) (*model.Content, error) {
	var content model.Content
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, m.Array: userID},
		bson.M{
			"$pull": bson.M{m.Array: userID},
			"$inc":  bson.M{m.Counter: -1},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&content)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *ContentRepoImpl) IncrementComments(ctx context.Context, id primitive.ObjectID, delta int64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stats.comments": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *ContentRepoImpl) SetCommentCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stats.comments": count}})
	return err
}

// SetCommentCounts writes stats.comments for every content id in counts and zeroes
// every other content that still carries a positive counter
func (s *ContentRepoImpl) SetCommentCounts(ctx context.Context, counts map[primitive.ObjectID]int64) (int64, error) {
	writes := make([]mongo.WriteModel, 0, len(counts)+1)
	ids := make([]primitive.ObjectID, 0, len(counts))
	for id, n := range counts {
		ids = append(ids, id)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id, "stats.comments": bson.M{"$ne": n}}).
			SetUpdate(bson.M{"$set": bson.M{"stats.comments": n}}))
	}
	writes = append(writes, mongo.NewUpdateManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": ids}, "stats.comments": bson.M{"$ne": 0}}).
		SetUpdate(bson.M{"$set": bson.M{"stats.comments": 0}}))

	res, err := s.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ReconcileMembershipCounters rewrites stats.likes and stats.saves from the array sizes
// wherever they drifted
func (s *ContentRepoImpl) ReconcileMembershipCounters(ctx context.Context) (int64, error) {
	likes := bson.M{"$size": bson.M{"$ifNull": bson.A{"$likedBy", bson.A{}}}}
	saves := bson.M{"$size": bson.M{"$ifNull": bson.A{"$savedBy", bson.A{}}}}

	filter := bson.M{"$expr": bson.M{"$or": bson.A{
		bson.M{"$ne": bson.A{"$stats.likes", likes}},
		bson.M{"$ne": bson.A{"$stats.saves", saves}},
	}}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"stats.likes": likes, "stats.saves": saves}}},
	}
	res, err := s.col.UpdateMany(ctx, filter, pipeline)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *ContentRepoImpl) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*model.Content, error) {
	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	items := make([]*model.Content, 0)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// buildContentFilter returns nil when the filter can match nothing
func buildContentFilter(f ContentFilter) bson.M {
	query := bson.M{}
	if !f.IncludePrivate {
		query["isPublic"] = true
	}
	if f.ContentType != "" {
		query["contentType"] = f.ContentType
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		query["category"] = c
	}
	if len(f.Tags) > 0 {
		query["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Creators != nil {
		switch len(f.Creators) {
		case 0:
			return nil
		case 1:
			query["creator"] = f.Creators[0]
		default:
			query["creator"] = bson.M{"$in": f.Creators}
		}
	}
	if !f.SavedBy.IsZero() {
		query["savedBy"] = f.SavedBy
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}
	return query
}

func sortSpec(mode string) bson.D {
	switch mode {
	case SortTrending:
		return bson.D{{Key: "stats.views", Value: -1}, {Key: "createdAt", Value: -1}}
	case SortPopular:
		return bson.D{{Key: "stats.likes", Value: -1}, {Key: "createdAt", Value: -1}}
	case SortRecommended:
		return bson.D{{Key: "stats.likes", Value: -1}, {Key: "stats.views", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
