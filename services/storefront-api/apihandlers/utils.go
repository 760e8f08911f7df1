package apihandlers

import (
	"math/rand"
	"net/http"
	"time"

	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	"github.com/gin-gonic/gin"
)

const (
	cookieNameRefreshToken = "refreshToken"
	cookieNameAccessToken  = "accessToken"
)

// randomWait adds jitter before responding to failed credential checks.
func randomWait(minTimeMs int, maxTimeMs int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeMs-minTimeMs)+minTimeMs) * time.Millisecond)
}

func (h *HttpEndpoints) cookieSameSite() http.SameSite {
	// cross-site frontend in production needs SameSite=None with secure cookies
	if h.useSecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (h *HttpEndpoints) setAuthCookies(c *gin.Context, refreshToken string, accessToken string) {
	c.SetSameSite(h.cookieSameSite())
	c.SetCookie(cookieNameRefreshToken, refreshToken, int(h.ttls.RefreshToken.Seconds()), "/", "", h.useSecureCookies, true)
	if accessToken != "" {
		c.SetCookie(cookieNameAccessToken, accessToken, int(h.ttls.AccessToken.Seconds()), "/", "", h.useSecureCookies, true)
	}
}

func (h *HttpEndpoints) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(h.cookieSameSite())
	c.SetCookie(cookieNameRefreshToken, "", -1, "/", "", h.useSecureCookies, true)
	c.SetCookie(cookieNameAccessToken, "", -1, "/", "", h.useSecureCookies, true)
}

func currentUserFromContext(c *gin.Context) *adminuser.AdminUser {
	userValue, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := userValue.(*adminuser.AdminUser)
	if !ok {
		return nil
	}
	return user
}

func adminInfo(user *adminuser.AdminUser) gin.H {
	return gin.H{
		"id":         user.ID.Hex(),
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"bio":        user.Bio,
		"profilePic": user.ProfilePic,
		"address":    user.Address,
		"number":     user.Number,
	}
}
