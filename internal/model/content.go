package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContentType string

const (
	ContentTypeImage ContentType = "image"
	ContentTypeShort ContentType = "short"
	ContentTypeFilm  ContentType = "film"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeImage, ContentTypeShort, ContentTypeFilm:
		return true
	}
	return false
}

func (t ContentType) IsVideo() bool {
	return t == ContentTypeShort || t == ContentTypeFilm
}

// Prefix is the storage directory for the type
func (t ContentType) Prefix() string {
	switch t {
	case ContentTypeImage:
		return "images/"
	case ContentTypeShort:
		return "shorts/"
	case ContentTypeFilm:
		return "films/"
	}
	return ""
}

type ContentStats struct {
	Views     int64 `bson:"views"`
	Likes     int64 `bson:"likes"`
	Comments  int64 `bson:"comments"`
	Shares    int64 `bson:"shares"`
	Saves     int64 `bson:"saves"`
	Downloads int64 `bson:"downloads"`
}

// Content is an uploaded image, short or film.
// Stats.Likes == len(LikedBy) and Stats.Saves == len(SavedBy) after every mutation.
type Content struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description"`
	ContentType  ContentType          `bson:"contentType"`
	FileURL      string               `bson:"fileUrl"`
	ThumbnailURL string               `bson:"thumbnailUrl"`
	Creator      primitive.ObjectID   `bson:"creator"`
	Duration     float64              `bson:"duration"`
	Tags         []string             `bson:"tags"`
	Category     string               `bson:"category"`
	Stats        ContentStats         `bson:"stats"`
	LikedBy      []primitive.ObjectID `bson:"likedBy"`
	SavedBy      []primitive.ObjectID `bson:"savedBy"`
	IsPublic     bool                 `bson:"isPublic"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

func (c *Content) LikedByUser(uid primitive.ObjectID) bool {
	return !uid.IsZero() && containsID(c.LikedBy, uid)
}

func (c *Content) SavedByUser(uid primitive.ObjectID) bool {
	return !uid.IsZero() && containsID(c.SavedBy, uid)
}

// VisibleTo private content is only visible to its creator
func (c *Content) VisibleTo(uid primitive.ObjectID) bool {
	return c.IsPublic || (!uid.IsZero() && c.Creator == uid)
}
