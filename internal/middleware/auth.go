package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer access token and places the subject, email
// and role snapshot into the request context. Any token problem is a plain
// 401 with no detail about what exactly failed.
func RequireAuth(codec *jwt.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Missing or malformed Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := codec.Validate(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("roles", claims.Roles)

		c.Next()
	}
}
