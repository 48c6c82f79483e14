package middleware

import (
	"net/http"

	"storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures the validated token carried the given role claim.
// Roles are the snapshot embedded at token issuance, not a live lookup.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesAny, exists := c.Get("roles")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		roles, _ := rolesAny.([]string)
		for _, r := range roles {
			if r == requiredRole {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires the admin role claim.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
