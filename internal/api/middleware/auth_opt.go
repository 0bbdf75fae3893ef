package middleware

import (
	"Blips/internal/pkg/security"
	"Blips/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware identifies the caller when a valid token is present and lets
// anonymous requests through otherwise
func AuthOptionalMiddleware(tokens *security.TokenManager, blacklist service.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}
		if blacklist != nil {
			signature, _ := security.ExtractSignature(tokenString)
			if revoked, err := blacklist.IsRevoked(c.Request.Context(), signature); err != nil || revoked {
				c.Next()
				return
			}
		}

		setIdentity(c, claims, tokenString)
		c.Next()
	}
}
