package middleware

import (
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckRoles requires at least one of requiredRoles
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice(consts.RolesKey)

		hasPermission := false
		for _, required := range requiredRoles {
			for _, userRole := range roles {
				if required == userRole {
					hasPermission = true
					break
				}
			}
			if hasPermission {
				break
			}
		}

		if !hasPermission {
			response.Fail(c, response.Forbidden, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
