package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/event"
	"Blips/internal/model"
	"Blips/internal/pkg/storage"
	"Blips/internal/repository"
	"Blips/internal/repository/mocks"
	"bytes"
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type contentFixture struct {
	contents  *mocks.MockContentRepo
	comments  *mocks.MockCommentRepo
	users     *mocks.MockUserRepo
	store     *storage.LocalStorage
	publisher *recordingPublisher
	svc       ContentService
}

func newContentFixture(t *testing.T) *contentFixture {
	f := &contentFixture{
		contents:  new(mocks.MockContentRepo),
		comments:  new(mocks.MockCommentRepo),
		users:     new(mocks.MockUserRepo),
		store:     newTestStore(t),
		publisher: &recordingPublisher{},
	}
	f.svc = NewContentService(f.contents, f.comments, f.users, passTx{}, f.store, nil, f.publisher,
		ContentOptions{ClientURL: "http://localhost:3000", PresignTTL: time.Minute})
	return f
}

func TestLikeTellsMissingContentFromDuplicate(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	liked := primitive.NewObjectID()
	missing := primitive.NewObjectID()

	f.contents.On("AddMember", ctx, liked, userID, repository.LikeMembership).Return(nil, mongoDB.ErrNoDocuments)
	f.contents.On("Exists", ctx, liked).Return(true, nil)
	f.contents.On("AddMember", ctx, missing, userID, repository.LikeMembership).Return(nil, mongoDB.ErrNoDocuments)
	f.contents.On("Exists", ctx, missing).Return(false, nil)

	_, err := f.svc.Like(ctx, userID, liked.Hex())
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	_, err = f.svc.Like(ctx, userID, missing.Hex())
	assert.ErrorIs(t, err, ErrContentNotFound)

	_, err = f.svc.Like(ctx, userID, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidContentID)

	assert.Empty(t, f.publisher.types())
}

func TestLikePublishesEvent(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	content := &model.Content{
		ID:      primitive.NewObjectID(),
		Title:   "sunset",
		Creator: primitive.NewObjectID(),
		Stats:   model.ContentStats{Likes: 3},
	}
	f.contents.On("AddMember", ctx, content.ID, userID, repository.LikeMembership).Return(content, nil)

	res, err := f.svc.Like(ctx, userID, content.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Likes)
	assert.True(t, res.IsLiked)
	assert.Equal(t, []event.Type{event.ContentLiked}, f.publisher.types())
	assert.Equal(t, content.Creator.Hex(), f.publisher.events[0].TargetID)
}

func TestUnsaveNotSaved(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	id := primitive.NewObjectID()
	f.contents.On("RemoveMember", ctx, id, userID, repository.SaveMembership).Return(nil, mongoDB.ErrNoDocuments)
	f.contents.On("Exists", ctx, id).Return(true, nil)

	_, err := f.svc.Unsave(ctx, userID, id.Hex())
	assert.ErrorIs(t, err, ErrNotSaved)
}

func TestExploreShortCircuits(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown creator", func(t *testing.T) {
		f := newContentFixture(t)
		f.users.On("GetByUsername", ctx, "ghost").Return(nil, mongoDB.ErrNoDocuments)

		res, err := f.svc.Explore(ctx, primitive.NilObjectID, &dto.ExploreQuery{Creator: "ghost"})
		require.NoError(t, err)
		assert.Empty(t, res.Contents)
		assert.NotNil(t, res.Contents)
		assert.Equal(t, int64(0), res.Pagination.Total)
		f.contents.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("following as guest", func(t *testing.T) {
		f := newContentFixture(t)
		res, err := f.svc.Explore(ctx, primitive.NilObjectID, &dto.ExploreQuery{Following: true})
		require.NoError(t, err)
		assert.Empty(t, res.Contents)
	})

	t.Run("following nobody", func(t *testing.T) {
		f := newContentFixture(t)
		viewer := &model.User{ID: primitive.NewObjectID(), Username: "alice"}
		f.users.On("GetByID", ctx, viewer.ID).Return(viewer, nil)

		res, err := f.svc.Explore(ctx, viewer.ID, &dto.ExploreQuery{Following: true})
		require.NoError(t, err)
		assert.Empty(t, res.Contents)
		f.contents.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid content type", func(t *testing.T) {
		f := newContentFixture(t)
		_, err := f.svc.Explore(ctx, primitive.NilObjectID, &dto.ExploreQuery{ContentType: "podcast"})
		assert.ErrorIs(t, err, ErrContentTypeInvalid)
	})
}

func TestExploreDefaultsToNewest(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	creator := &model.User{ID: primitive.NewObjectID(), Username: "bob"}
	item := &model.Content{ID: primitive.NewObjectID(), Title: "a", Creator: creator.ID, IsPublic: true}

	f.contents.On("Find", ctx, mock.MatchedBy(func(filter repository.ContentFilter) bool {
		return filter.ContentType == model.ContentTypeImage && reflect.DeepEqual(filter.Tags, []string{"sea", "sky"})
	}), repository.SortNewest, int64(0), mock.Anything).Return([]*model.Content{item}, int64(1), nil)
	f.users.On("GetByIDs", ctx, mock.Anything).Return([]*model.User{creator}, nil)

	res, err := f.svc.Explore(ctx, primitive.NilObjectID, &dto.ExploreQuery{ContentType: "IMAGE", Tags: "Sea, SKY"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, int64(1), res.Pagination.Total)
	f.contents.AssertExpectations(t)
}

func TestUploadWithoutTitleRemovesFile(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	key := "images/u-1.png"
	require.NoError(t, f.store.Put(ctx, key, bytes.NewReader([]byte("png")), 3, "image/png"))

	file := &UploadedFile{Key: key, MimeType: "image/png", ContentType: model.ContentTypeImage}
	_, err := f.svc.Upload(ctx, primitive.NewObjectID(), file, &dto.UploadContentDTO{Title: "   "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.store.Locate(ctx, key, time.Minute)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	f.contents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadRejectsMismatchedType(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	key := "images/u-2.png"
	require.NoError(t, f.store.Put(ctx, key, bytes.NewReader([]byte("png")), 3, "image/png"))

	file := &UploadedFile{Key: key, MimeType: "image/png", ContentType: model.ContentTypeImage}
	_, err := f.svc.Upload(ctx, primitive.NewObjectID(), file, &dto.UploadContentDTO{Title: "clip", ContentType: "film"})
	assert.ErrorIs(t, err, ErrFileTypeMismatch)

	_, err = f.store.Locate(ctx, key, time.Minute)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUploadVideoRendersThumbnail(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	user := &model.User{ID: primitive.NewObjectID(), Username: "carol"}
	key := "shorts/u-3.mp4"
	require.NoError(t, f.store.Put(ctx, key, bytes.NewReader([]byte("mp4")), 3, "video/mp4"))

	var created *model.Content
	f.contents.On("Create", ctx, mock.AnythingOfType("*model.Content")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.Content) }).
		Return(nil)
	f.users.On("GetByIDs", ctx, mock.Anything).Return([]*model.User{user}, nil)

	file := &UploadedFile{Key: key, MimeType: "video/mp4", ContentType: model.ContentTypeShort}
	res, err := f.svc.Upload(ctx, user.ID, file, &dto.UploadContentDTO{Title: "Skate", Tags: "Skate,PARK", Duration: 12})
	require.NoError(t, err)
	require.NotNil(t, res)

	require.NotNil(t, created)
	assert.Equal(t, "shorts/u-3-thumb.jpg", created.ThumbnailURL)
	assert.Equal(t, key, created.FileURL)
	assert.True(t, created.IsPublic)
	assert.Equal(t, []string{"skate", "park"}, created.Tags)

	_, err = f.store.Locate(ctx, created.ThumbnailURL, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, []event.Type{event.ContentUploaded}, f.publisher.types())
}

func TestDeleteChecksOwnership(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	content := &model.Content{
		ID:           primitive.NewObjectID(),
		Creator:      owner,
		FileURL:      "images/x.png",
		ThumbnailURL: "images/x.png",
	}
	f.contents.On("GetByID", ctx, content.ID).Return(content, nil)

	err := f.svc.Delete(ctx, primitive.NewObjectID(), false, content.ID.Hex())
	assert.ErrorIs(t, err, ForbiddenError)
	f.contents.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	f.contents.On("Delete", ctx, content.ID).Return(nil)
	f.comments.On("DeleteByContent", ctx, content.ID).Return(int64(2), nil)

	require.NoError(t, f.svc.Delete(ctx, primitive.NewObjectID(), true, content.ID.Hex()))
	f.contents.AssertExpectations(t)
	f.comments.AssertExpectations(t)
}

func TestStreamHidesPrivateContent(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()
	content := &model.Content{ID: primitive.NewObjectID(), Creator: owner, FileURL: "films/f.mp4", IsPublic: false}
	f.contents.On("GetByID", ctx, content.ID).Return(content, nil)
	require.NoError(t, f.store.Put(ctx, content.FileURL, bytes.NewReader([]byte("mp4")), 3, "video/mp4"))

	_, err := f.svc.Stream(ctx, primitive.NewObjectID(), content.ID.Hex())
	assert.ErrorIs(t, err, ErrContentNotFound)

	loc, err := f.svc.Stream(ctx, owner, content.ID.Hex())
	require.NoError(t, err)
	assert.NotEmpty(t, loc.Path)
	assert.Zero(t, loc.ExpiresIn)
}

func TestIntersectCreators(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, []primitive.ObjectID{a, b}, intersectCreators(nil, []primitive.ObjectID{a, b}))
	assert.Equal(t, []primitive.ObjectID{b}, intersectCreators([]primitive.ObjectID{b, c}, []primitive.ObjectID{a, b}))
	assert.Empty(t, intersectCreators([]primitive.ObjectID{c}, []primitive.ObjectID{a}))
}
