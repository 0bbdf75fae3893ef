package redis

import (
	"Blips/internal/pkg/consts"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// TokenBlacklist stores revoked JWT signatures until the token would have expired anyway
type TokenBlacklist struct{}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{}
}

func (s *TokenBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", ttl)
}

func (s *TokenBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	v, err := GetValue(ctx, consts.TokenBlacklistKey+signature)
	if err != nil {
		return false, err
	}
	return v != "", nil
}

// Locker is a single-attempt distributed lock
type Locker struct{}

func NewLocker() *Locker {
	return &Locker{}
}

func (s *Locker) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return TryLock(ctx, key, owner, ttl, 1)
}

func (s *Locker) Unlock(ctx context.Context, key, owner string) error {
	return UnLock(ctx, key, owner)
}

// UploadRegistry tracks stored files that are not yet referenced by a document
type UploadRegistry struct{}

func NewUploadRegistry() *UploadRegistry {
	return &UploadRegistry{}
}

type uploadMeta struct {
	MimeType  string `json:"mimeType"`
	CreatedAt int64  `json:"createdAt"`
}

func (s *UploadRegistry) Track(ctx context.Context, key, mimeType string) error {
	b, err := json.Marshal(uploadMeta{MimeType: mimeType, CreatedAt: time.Now().Unix()})
	if err != nil {
		return err
	}
	return HSet(ctx, consts.UploadTempKey, key, string(b))
}

func (s *UploadRegistry) Release(ctx context.Context, keys ...string) error {
	return HDel(ctx, consts.UploadTempKey, keys...)
}

// Expired lists tracked keys older than ttl. Unparseable entries are skipped.
func (s *UploadRegistry) Expired(ctx context.Context, ttl time.Duration) ([]string, error) {
	all, err := HGetAll(ctx, consts.UploadTempKey)
	if err != nil {
		return nil, err
	}
	return expiredKeys(all, time.Now(), ttl), nil
}

func expiredKeys(all map[string]string, now time.Time, ttl time.Duration) []string {
	cutoff := now.Add(-ttl).Unix()
	var keys []string
	for key, raw := range all {
		var meta uploadMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			ts, convErr := strconv.ParseInt(raw, 10, 64)
			if convErr != nil {
				log.Warn("invalid upload meta format", "key", key)
				continue
			}
			meta.CreatedAt = ts
		}
		if meta.CreatedAt > 0 && meta.CreatedAt <= cutoff {
			keys = append(keys, key)
		}
	}
	return keys
}
