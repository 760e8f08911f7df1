package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	jwthandling "github.com/babulal-jewellers/storefront-backend/pkg/jwt-handling"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAuthorization = "Authorization"
	CookieAccessToken   = "accessToken"
)

// AccountProvider loads accounts during request authentication.
type AccountProvider interface {
	GetUserByID(userID string) (*adminuser.AdminUser, error)
}

// AdminAuthMiddleware verifies the access token and loads the matching
// account. Missing, invalid and expired tokens, unknown accounts and
// deactivated accounts all fail with the same 401.
func AdminAuthMiddleware(accessTokenSignKey string, accounts AccountProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no access token found", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		parsedToken, err := jwthandling.ValidateAdminUserToken(token, accessTokenSignKey)
		if err != nil {
			if errors.Is(err, jwthandling.ErrTokenExpired) {
				slog.Debug("expired access token", slog.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token expired"})
				return
			}
			slog.Warn("access token validation failed", slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		user, err := accounts.GetUserByID(parsedToken.Subject)
		if err != nil || user == nil || !user.IsActive {
			slog.Warn("access token for unknown or inactive account", slog.String("userID", parsedToken.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		c.Set("validatedToken", parsedToken)
		c.Set("currentUser", user)
		c.Next()
	}
}

// extractToken prefers the Authorization header, falling back to the
// access token cookie set by the login endpoint.
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(HeaderAuthorization)
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if len(token) == 0 {
			return "", errors.New("no token found in Authorization header")
		}
		return token, nil
	}

	token, err := c.Cookie(CookieAccessToken)
	if err != nil || token == "" {
		return "", errors.New("no access token found")
	}
	return token, nil
}
