package middleware

import (
	"Blips/internal/model"
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/storage"
	"Blips/internal/service"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testUserID = "64b7f0f0f0f0f0f0f0f0f0f0"

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memBlacklist map[string]bool

func (m memBlacklist) Revoke(_ context.Context, signature string, _ time.Duration) error {
	m[signature] = true
	return nil
}

func (m memBlacklist) IsRevoked(_ context.Context, signature string) (bool, error) {
	return m[signature], nil
}

type memRegistry struct {
	tracked []string
}

func (r *memRegistry) Track(_ context.Context, key, _ string) error {
	r.tracked = append(r.tracked, key)
	return nil
}

func (r *memRegistry) Release(context.Context, ...string) error { return nil }

func (r *memRegistry) Expired(context.Context, time.Duration) ([]string, error) { return nil, nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func identityRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", append(mw, func(c *gin.Context) {
		uid, _ := c.Get(consts.UserIDKey)
		id, _ := uid.(primitive.ObjectID)
		c.String(http.StatusOK, id.Hex())
	})...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tm := security.NewTokenManager("secret", time.Hour)
	token, err := tm.GenerateToken(testUserID, "alice", []string{consts.RoleUser})
	require.NoError(t, err)
	revoked, err := tm.GenerateToken(testUserID, "mallory", []string{consts.RoleUser})
	require.NoError(t, err)
	sig, _ := security.ExtractSignature(revoked)
	blacklist := memBlacklist{sig: true}

	r := identityRouter(AuthMiddleware(tm, blacklist))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, testUserID, w.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+revoked)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	tm := security.NewTokenManager("secret", time.Hour)
	r := identityRouter(AuthOptionalMiddleware(tm, memBlacklist{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, primitive.NilObjectID.Hex(), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckRoles(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(consts.RolesKey, []string{consts.RoleUser})
		c.Next()
	}, CheckRoles(consts.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func multipartRequest(t *testing.T, url, filename string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(uploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func uploadRouter(t *testing.T, maxBytes int64) (*gin.Engine, string, *memRegistry, *service.UploadedFile) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:5000")
	require.NoError(t, err)
	registry := &memRegistry{}
	got := &service.UploadedFile{}

	uid, _ := primitive.ObjectIDFromHex(testUserID)
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		c.Set(consts.UserIDKey, uid)
		c.Next()
	}, UploadMiddleware(store, registry, maxBytes), func(c *gin.Context) {
		f := c.MustGet(consts.UploadedFileKey).(*service.UploadedFile)
		*got = *f
		c.Status(http.StatusCreated)
	})
	return r, dir, registry, got
}

func TestUploadMiddlewareInfersImage(t *testing.T) {
	r, dir, registry, got := uploadRouter(t, 1<<20)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/upload", "pic.PNG", pngHeader))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, model.ContentTypeImage, got.ContentType)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Regexp(t, `^images/`+testUserID+`-\d+-\d{9}\.png$`, got.Key)
	assert.Equal(t, []string{got.Key}, registry.tracked)

	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(got.Key)))
	assert.NoError(t, err)
}

func TestUploadMiddlewareUsesSniffedExtension(t *testing.T) {
	for _, name := range []string{"x.html", "x.svg", "noext"} {
		t.Run(name, func(t *testing.T) {
			r, dir, _, got := uploadRouter(t, 1<<20)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, "/upload", name, pngHeader))

			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, "image/png", got.MimeType)
			assert.Regexp(t, `^images/`+testUserID+`-\d+-\d{9}\.png$`, got.Key)
			assert.Equal(t, name, got.OriginalName)

			_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(got.Key)))
			assert.NoError(t, err)
		})
	}
}

func TestStoredExt(t *testing.T) {
	assert.Equal(t, ".jpeg", storedExt("me.JPEG", "image/jpeg", ".jpg"))
	assert.Equal(t, ".png", storedExt("page.html", "image/png", ".png"))
	assert.Equal(t, ".mp4", storedExt("clip", "video/mp4", ".mp4"))
}

func TestUploadMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		data     []byte
		maxBytes int64
		status   int
	}{
		{"type mismatch", "/upload?contentType=short", pngHeader, 1 << 20, http.StatusBadRequest},
		{"unknown type", "/upload?contentType=podcast", pngHeader, 1 << 20, http.StatusBadRequest},
		{"not media", "/upload", []byte("just some text"), 1 << 20, http.StatusBadRequest},
		{"too large", "/upload", pngHeader, 4, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, registry, _ := uploadRouter(t, tt.maxBytes)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, tt.url, "f.png", tt.data))
			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, registry.tracked)
		})
	}
}

func TestUploadMiddlewareRequiresFile(t *testing.T) {
	r, _, _, _ := uploadRouter(t, 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
