package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	jwthandling "github.com/babulal-jewellers/storefront-backend/pkg/jwt-handling"
	"github.com/babulal-jewellers/storefront-backend/pkg/user-management/pwhash"
	"github.com/babulal-jewellers/storefront-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) issueTokenPair(userID string, role string) (accessToken string, refreshToken string, err error) {
	accessToken, err = jwthandling.GenerateNewAdminUserAccessToken(h.ttls.AccessToken, userID, role, h.accessTokenSignKey)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = jwthandling.GenerateNewAdminUserRefreshToken(h.ttls.RefreshToken, userID, h.refreshTokenSignKey)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (h *HttpEndpoints) login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.Email == "" || req.Password == "" {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "email and password are required")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	user, err := h.adminUserDB.GetUserByEmail(req.Email)
	if err != nil || user == nil || !user.IsActive {
		slog.Warn("login attempt with unknown or inactive account", slog.String("email", req.Email))
		randomWait(100, 300)
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, req.Password)
	if err != nil || !match {
		if err == nil {
			err = errors.New("passwords do not match")
		}
		slog.Warn("login attempt with wrong password", slog.String("email", req.Email), slog.String("error", err.Error()))
		randomWait(100, 300)
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(user.ID.Hex(), user.Role)
	if err != nil {
		slog.Error("failed to generate tokens", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.adminUserDB.AddRefreshToken(user.ID.Hex(), refreshToken); err != nil {
		slog.Error("failed to save refresh token", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.adminUserDB.UpdateLastLogin(user.ID.Hex()); err != nil {
		slog.Error("failed to update last login", slog.String("error", err.Error()))
	}

	h.setAuthCookies(c, refreshToken, accessToken)

	slog.Info("login successful", slog.String("userID", user.ID.Hex()))
	apihelpers.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"accessToken": accessToken,
		"admin":       adminInfo(user),
	})
}

// refreshToken rotates the session. Presenting a token that verifies but
// is no longer stored counts as reuse and revokes every session of the
// account.
func (h *HttpEndpoints) refreshToken(c *gin.Context) {
	token, err := c.Cookie(cookieNameRefreshToken)
	if err != nil || token == "" {
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "refresh token not found")
		return
	}

	claims, err := jwthandling.ValidateAdminUserToken(token, h.refreshTokenSignKey)
	if err != nil {
		slog.Warn("refresh token validation failed", slog.String("error", err.Error()))
		h.clearAuthCookies(c)
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	user, err := h.adminUserDB.GetUserByID(claims.Subject)
	if err != nil || user == nil || !user.IsActive {
		h.clearAuthCookies(c)
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "user not found")
		return
	}

	if !user.HasRefreshToken(token) {
		slog.Warn("refresh token reuse detected, revoking all sessions", slog.String("userID", user.ID.Hex()))
		if err := h.adminUserDB.ClearRefreshTokens(user.ID.Hex()); err != nil {
			slog.Error("failed to clear refresh tokens", slog.String("error", err.Error()))
		}
		h.clearAuthCookies(c)
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "refresh token reuse detected, please log in again")
		return
	}

	accessToken, newRefreshToken, err := h.issueTokenPair(user.ID.Hex(), user.Role)
	if err != nil {
		slog.Error("failed to generate tokens", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.adminUserDB.ReplaceRefreshToken(user.ID.Hex(), token, newRefreshToken); err != nil {
		// a concurrent refresh rotated this token first, treat it as reuse
		if errors.Is(err, mongo.ErrNoDocuments) {
			slog.Warn("refresh token rotated concurrently, revoking all sessions", slog.String("userID", user.ID.Hex()))
			if err := h.adminUserDB.ClearRefreshTokens(user.ID.Hex()); err != nil {
				slog.Error("failed to clear refresh tokens", slog.String("error", err.Error()))
			}
			h.clearAuthCookies(c)
			apihelpers.ErrorResponse(c, http.StatusUnauthorized, "refresh token reuse detected, please log in again")
			return
		}
		slog.Error("failed to rotate refresh token", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setAuthCookies(c, newRefreshToken, accessToken)

	apihelpers.SuccessResponse(c, http.StatusOK, "Token refreshed", gin.H{
		"accessToken": accessToken,
	})
}

// logout revokes the presented session best-effort and always clears
// the cookies.
func (h *HttpEndpoints) logout(c *gin.Context) {
	token, err := c.Cookie(cookieNameRefreshToken)
	if err == nil && token != "" {
		claims, err := jwthandling.ValidateAdminUserToken(token, h.refreshTokenSignKey)
		if err == nil {
			if err := h.adminUserDB.RemoveRefreshToken(claims.Subject, token); err != nil {
				slog.Error("failed to remove refresh token", slog.String("error", err.Error()))
			}
		}
	}

	h.clearAuthCookies(c)
	apihelpers.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *HttpEndpoints) getMe(c *gin.Context) {
	user := currentUserFromContext(c)
	if user == nil {
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "User profile", adminInfo(user))
}

func (h *HttpEndpoints) checkAuth(c *gin.Context) {
	user := currentUserFromContext(c)
	if user == nil {
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Authorized", adminInfo(user))
}

type CreateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *HttpEndpoints) createUser(c *gin.Context) {
	var req CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	if req.Name == "" || !utils.CheckEmailFormat(req.Email) {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "name and a valid email are required")
		return
	}
	if !utils.CheckPasswordFormat(req.Password) {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "password too weak")
		return
	}
	if req.Role == "" {
		req.Role = adminuser.ROLE_ADMIN
	}
	if req.Role != adminuser.ROLE_ADMIN && req.Role != adminuser.ROLE_SUPERADMIN {
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid role")
		return
	}

	if existing, err := h.adminUserDB.GetUserByEmail(req.Email); err == nil && existing != nil {
		apihelpers.ErrorResponse(c, http.StatusConflict, "email already registered")
		return
	}

	password, err := pwhash.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.adminUserDB.CreateUser(adminuser.AdminUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: password,
		Role:     req.Role,
		IsActive: true,
	})
	if err != nil {
		slog.Error("failed to create user", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("admin account created", slog.String("userID", user.ID.Hex()), slog.String("role", user.Role))
	apihelpers.SuccessResponse(c, http.StatusCreated, "Signup successful", gin.H{
		"admin": adminInfo(user),
	})
}

func (h *HttpEndpoints) getAllUsers(c *gin.Context) {
	users, err := h.adminUserDB.GetAllUsers()
	if err != nil {
		slog.Error("failed to fetch users", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}
	apihelpers.SuccessResponse(c, http.StatusOK, "Users fetched successfully", users)
}

type UpdateProfileReq struct {
	Name       string `json:"name"`
	Number     string `json:"number"`
	Address    string `json:"address"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
}

func (h *HttpEndpoints) updateProfile(c *gin.Context) {
	user := currentUserFromContext(c)
	if user == nil {
		apihelpers.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		apihelpers.ErrorResponse(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := h.adminUserDB.UpdateProfile(user.ID.Hex(), req.Name, req.Number, req.Address, req.Bio, req.ProfilePic)
	if err != nil {
		slog.Error("failed to update profile", slog.String("error", err.Error()), slog.String("userID", user.ID.Hex()))
		apihelpers.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	apihelpers.SuccessResponse(c, http.StatusOK, "Profile updated", adminInfo(updated))
}
