package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var ErrNotFound = errors.New("object not found")

// Location tells a handler how to serve an object: a local file path or a signed URL
type Location struct {
	Path string
	URL  string
}

// Storage persists uploaded media under slash separated keys like "shorts/<name>.mp4"
type Storage interface {
	Kind() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Locate(ctx context.Context, key string, ttl time.Duration) (*Location, error)
	URL(key string) string
}

// ObjectKey builds "<prefix><userID>-<unixMillis>-<random><ext>"
func ObjectKey(prefix, userID, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s%s-%d-%s%s", prefix, userID, time.Now().UnixMilli(), randomDigits(9), ext)
}

// NormalizeKey turns stored values of any historical shape ("/uploads/images/a.png",
// "uploads\\images\\a.png", "images/a.png") into a plain key
func NormalizeKey(raw string) string {
	k := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if k == "" {
		return ""
	}
	k = path.Clean("/" + k)
	k = strings.TrimPrefix(k, "/")
	k = strings.TrimPrefix(k, "uploads/")
	if k == "." || k == "uploads" {
		return ""
	}
	return k
}

// PublicURL resolves a stored file reference to the URL clients fetch. Absolute URLs pass
// through untouched.
func PublicURL(s Storage, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:") {
		return raw
	}
	key := NormalizeKey(raw)
	if key == "" || s == nil {
		return ""
	}
	return s.URL(key)
}

// DeleteQuietly removes every non-empty key, returning the joined errors
func DeleteQuietly(ctx context.Context, s Storage, keys ...string) error {
	var errs []error
	for _, key := range keys {
		key = NormalizeKey(key)
		if key == "" {
			continue
		}
		if err := s.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
