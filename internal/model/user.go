package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User account. Followers and Following are kept symmetric across documents.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"`
	DisplayName  string               `bson:"displayName"`
	Bio          string               `bson:"bio"`
	ProfileImage string               `bson:"profileImage"`
	Followers    []primitive.ObjectID `bson:"followers"`
	Following    []primitive.ObjectID `bson:"following"`
	IsAdmin      bool                 `bson:"isAdmin"`
	SupabaseID   string               `bson:"supabaseId,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

// IsFollowing reports whether u follows target
func (u *User) IsFollowing(target primitive.ObjectID) bool {
	return containsID(u.Following, target)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
