package supabase

import (
	"Blips/internal/api/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("supabase is not configured")
	ErrInvalidToken  = errors.New("invalid supabase token")
)

// User subset of the GoTrue user payload
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *string        `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

// EmailConfirmed reports whether the provider verified the address
func (u *User) EmailConfirmed() bool {
	return u.Email != "" && u.EmailConfirmedAt != nil && *u.EmailConfirmedAt != ""
}

// DisplayName best effort name from the provider metadata
func (u *User) DisplayName() string {
	for _, k := range []string{"full_name", "name", "user_name", "preferred_username"} {
		if v, ok := u.UserMetadata[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func (u *User) AvatarURL() string {
	if v, ok := u.UserMetadata["avatar_url"].(string); ok {
		return v
	}
	return ""
}

// Client verifies Supabase access tokens against the project's auth endpoint
type Client struct {
	http    *resty.Client
	enabled bool
}

func NewClient(cfg config.SupabaseConfig) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetHeader("apikey", cfg.AnonKey).
		SetTimeout(10 * time.Second)
	return &Client{http: c, enabled: cfg.URL != "" && cfg.AnonKey != ""}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

// GetUser resolves the user behind accessToken
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if !c.enabled {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrInvalidToken
	}

	var user User
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("supabase request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.IsError():
		return nil, fmt.Errorf("supabase returned %d", resp.StatusCode())
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
