package service

import (
	"Blips/internal/api/dto"
	"Blips/internal/model"
	"Blips/internal/pkg/storage"
	"Blips/internal/pkg/util"
	"Blips/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenBlacklist revoked JWT signatures
type TokenBlacklist interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

// Locker single-attempt distributed lock
type Locker interface {
	TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, owner string) error
}

// UploadRegistry stored files not yet referenced by a document
type UploadRegistry interface {
	Track(ctx context.Context, key, mimeType string) error
	Release(ctx context.Context, keys ...string) error
	Expired(ctx context.Context, ttl time.Duration) ([]string, error)
}

// UploadedFile a file already written to storage by the upload middleware
type UploadedFile struct {
	Key          string
	MimeType     string
	OriginalName string
	Size         int64
	ContentType  model.ContentType
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func pageDTO(page, limit int, total int64) dto.PageDTO {
	return dto.PageDTO{Page: page, Limit: limit, Total: total, Pages: util.Pages(total, limit)}
}

func toUserSummary(store storage.Storage, u *model.User) *dto.UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &dto.UserSummaryDTO{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		DisplayName:  displayName(u),
		ProfileImage: storage.PublicURL(store, u.ProfileImage),
	}
}

func displayName(u *model.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// loadUsers resolves ids to users, missing ids are simply absent from the map
func loadUsers(ctx context.Context, repo repository.UserRepo, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	uniq := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	users, err := repo.GetByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	res := make(map[primitive.ObjectID]*model.User, len(users))
	for _, u := range users {
		res[u.ID] = u
	}
	return res, nil
}

// summaryOf falls back to an id-only block when the user no longer exists
func summaryOf(store storage.Storage, users map[primitive.ObjectID]*model.User, id primitive.ObjectID) *dto.UserSummaryDTO {
	if u, ok := users[id]; ok {
		return toUserSummary(store, u)
	}
	return &dto.UserSummaryDTO{ID: id.Hex(), Username: "deleted", DisplayName: "Deleted user"}
}

func hexPtr(id *primitive.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	s := id.Hex()
	return &s
}
