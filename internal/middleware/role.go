package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/casinohub/backend/pkg/response"
)

// RequireAdmin allows only identities with the admin flag. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			response.Unauthorized(c, "Not authorized, no token provided")
			c.Abort()
			return
		}
		if !id.IsAdmin {
			response.Forbidden(c, "Not authorized as admin")
			c.Abort()
			return
		}
		c.Next()
	}
}
