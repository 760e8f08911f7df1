package middlewares

import (
	"log/slog"
	"net/http"

	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	"github.com/gin-gonic/gin"
)

// RequireRole runs after AdminAuthMiddleware and blocks accounts whose
// role is not in the allowed set. The check uses the account loaded by
// the auth middleware, so role changes take effect immediately instead
// of when the access token expires.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, ok := c.Get("currentUser")
		if !ok {
			slog.Warn("RequireRole: currentUser not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}
		user, ok := userValue.(*adminuser.AdminUser)
		if !ok || user == nil {
			slog.Warn("RequireRole: currentUser has unexpected type")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		slog.Warn("RequireRole: role not allowed", slog.String("role", user.Role), slog.String("userID", user.ID.Hex()), slog.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
	}
}
