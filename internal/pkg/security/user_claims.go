package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "blips"

// UserClaims business fields carried in the token
type UserClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
