package storage

import (
	"Blips/internal/api/config"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("shorts/", "64b7f0f0f0f0f0f0f0f0f0f0", ".MP4")
	assert.Regexp(t, regexp.MustCompile(`^shorts/64b7f0f0f0f0f0f0f0f0f0f0-\d{13}-\d{9}\.mp4$`), key)

	assert.True(t, strings.HasSuffix(ObjectKey("images/", "u", "png"), ".png"))
	assert.NotEqual(t, ObjectKey("images/", "u", ".png"), ObjectKey("images/", "u", ".png"))
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"images/a.png":             "images/a.png",
		"/uploads/images/a.png":    "images/a.png",
		"uploads\\shorts\\b.mp4":   "shorts/b.mp4",
		"/films/../films/c.mp4":    "films/c.mp4",
		"uploads/":                 "",
		"  images/with space.png ": "images/with space.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), in)
	}
}

func TestPublicURL(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir(), "http://api.example/")
	require.NoError(t, err)

	assert.Equal(t, "http://api.example/uploads/images/a.png", PublicURL(local, "/uploads/images/a.png"))
	assert.Equal(t, "http://api.example/uploads/images/a.png", PublicURL(local, "images/a.png"))
	assert.Equal(t, "https://cdn.example/x.png", PublicURL(local, "https://cdn.example/x.png"))
	assert.Equal(t, "", PublicURL(local, ""))

	s3s, err := NewS3Storage(config.S3Config{Region: "eu-west-1", Bucket: "blips"})
	require.NoError(t, err)
	assert.Equal(t, "https://blips.s3.eu-west-1.amazonaws.com/films/c.mp4", PublicURL(s3s, "uploads/films/c.mp4"))
}

func TestLocalStorageLifecycle(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base, "http://localhost:5000")
	require.NoError(t, err)

	for _, dir := range []string{"images", "shorts", "films"} {
		assert.DirExists(t, filepath.Join(base, dir))
	}

	require.NoError(t, s.Put(ctx, "images/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	loc, err := s.Locate(ctx, "images/a.txt", time.Minute)
	require.NoError(t, err)
	data, err := os.ReadFile(loc.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "images/a.txt"))
	assert.ErrorIs(t, s.Delete(ctx, "images/a.txt"), ErrNotFound)

	_, err = s.Locate(ctx, "images/a.txt", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	_, err = s.resolve("")
	assert.Error(t, err)

	full, err := s.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(full, filepath.Join("etc", "passwd")))
	assert.True(t, strings.HasPrefix(full, mustAbs(t, s.BasePath())))
}

func TestDeleteQuietlyIgnoresMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "shorts/v.mp4", strings.NewReader("v"), 1, "video/mp4"))

	assert.NoError(t, DeleteQuietly(ctx, s, "shorts/v.mp4", "shorts/missing.jpg", ""))
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}
