package middleware

import (
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/pkg/security"
	"Blips/internal/pkg/util"
	"Blips/internal/service"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer JWT, rejects revoked tokens and puts the user identity
// into the gin context
func AuthMiddleware(tokens *security.TokenManager, blacklist service.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Authentication required")
			c.Abort()
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token is invalid or expired")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), signature)
			if err != nil {
				log.ErrorContext(c.Request.Context(), "blacklist lookup failed", "err", err)
				response.Fail(c, response.ServiceUnavailable, "Authentication temporarily unavailable")
				c.Abort()
				return
			}
			if revoked {
				response.Fail(c, response.Unauthorized, "Token is invalid or expired")
				c.Abort()
				return
			}
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil || !setIdentity(c, claims, tokenString) {
			response.Fail(c, response.Unauthorized, "Token is invalid or expired")
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *security.UserClaims, token string) bool {
	uid, ok := util.ParseObjectID(claims.UserID)
	if !ok {
		return false
	}
	c.Set(consts.UserIDKey, uid)
	c.Set(consts.RolesKey, claims.Roles)
	c.Set(consts.TokenKey, token)
	return true
}
