package repository

import (
	"Blips/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildContentFilter(t *testing.T) {
	creator := primitive.NewObjectID()

	t.Run("public only by default", func(t *testing.T) {
		q := buildContentFilter(ContentFilter{})
		assert.Equal(t, bson.M{"isPublic": true}, q)
	})

	t.Run("private included for owner listings", func(t *testing.T) {
		q := buildContentFilter(ContentFilter{IncludePrivate: true, Creators: []primitive.ObjectID{creator}})
		assert.Equal(t, bson.M{"creator": creator}, q)
	})

	t.Run("empty creator set matches nothing", func(t *testing.T) {
		assert.Nil(t, buildContentFilter(ContentFilter{Creators: []primitive.ObjectID{}}))
	})

	t.Run("several creators", func(t *testing.T) {
		other := primitive.NewObjectID()
		q := buildContentFilter(ContentFilter{Creators: []primitive.ObjectID{creator, other}})
		assert.Equal(t, bson.M{"$in": []primitive.ObjectID{creator, other}}, q["creator"])
	})

	t.Run("type category and tags", func(t *testing.T) {
		q := buildContentFilter(ContentFilter{
			ContentType: model.ContentTypeShort,
			Category:    " art ",
			Tags:        []string{"ai", "city"},
		})
		assert.Equal(t, model.ContentTypeShort, q["contentType"])
		assert.Equal(t, "art", q["category"])
		assert.Equal(t, bson.M{"$in": []string{"ai", "city"}}, q["tags"])
	})

	t.Run("search is regex escaped", func(t *testing.T) {
		q := buildContentFilter(ContentFilter{Search: "a.b (c)"})
		or, ok := q["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 3)
		re := or[0].(bson.M)["title"].(primitive.Regex)
		assert.Equal(t, `a\.b \(c\)`, re.Pattern)
		assert.Equal(t, "i", re.Options)
	})

	t.Run("saved by", func(t *testing.T) {
		q := buildContentFilter(ContentFilter{SavedBy: creator})
		assert.Equal(t, creator, q["savedBy"])
	})
}

func TestSortSpec(t *testing.T) {
	tests := []struct {
		mode  string
		first string
		keys  int
	}{
		{SortTrending, "stats.views", 2},
		{SortNewest, "createdAt", 1},
		{SortPopular, "stats.likes", 2},
		{SortRecommended, "stats.likes", 3},
		{"", "createdAt", 1},
		{"bogus", "createdAt", 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			spec := sortSpec(tt.mode)
			require.Len(t, spec, tt.keys)
			assert.Equal(t, tt.first, spec[0].Key)
			assert.Equal(t, -1, spec[0].Value)
		})
	}

	rec := sortSpec(SortRecommended)
	assert.Equal(t, "stats.views", rec[1].Key)
	assert.Equal(t, "createdAt", rec[2].Key)
}
