package response

import (
	"Blips/internal/pkg/util"
	"Blips/internal/service"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"sentinel", service.ErrAlreadyLiked, http.StatusBadRequest, "Content already liked"},
		{"wrapped sentinel", fmt.Errorf("like: %w", service.ErrContentNotFound), http.StatusNotFound, service.ErrContentNotFound.Error()},
		{"forbidden", service.ForbiddenError, http.StatusForbidden, service.ForbiddenError.Error()},
		{"too large", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "File too large"},
		{"validation", &util.ValidationError{Field: "title", Tag: "required"}, http.StatusBadRequest, "title is required"},
		{"truncated body", fmt.Errorf("bind: %w", io.ErrUnexpectedEOF), http.StatusBadRequest, "Invalid JSON"},
		{"std syntax", stdjson.Unmarshal([]byte(`{"a":}`), &struct{}{}), http.StatusBadRequest, "Invalid JSON"},
		{"std type", stdjson.Unmarshal([]byte(`{"a":5}`), &struct{ A string }{}), http.StatusBadRequest, "Invalid JSON"},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, "Database unavailable, please retry"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, genericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := Resolve(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestResolveExposeErrors(t *testing.T) {
	ExposeErrors = true
	defer func() { ExposeErrors = false }()

	_, message := Resolve(errors.New("boom"))
	assert.Equal(t, "boom", message)
}

func TestErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, service.ErrNotSaved)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(400), body["code"])
	assert.Equal(t, "Content not saved yet", body["message"])
}

func TestCreatedWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"id": "abc"})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(CreatedCode), body["code"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, map[string]any{"id": "abc"}, body["data"])
}
