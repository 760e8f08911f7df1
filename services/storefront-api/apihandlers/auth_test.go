package apihandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	adminuser "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	"github.com/babulal-jewellers/storefront-backend/pkg/user-management/pwhash"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type inMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*adminuser.AdminUser
}

func newInMemoryUserStore() *inMemoryUserStore {
	return &inMemoryUserStore{users: map[string]*adminuser.AdminUser{}}
}

func (s *inMemoryUserStore) CreateUser(user adminuser.AdminUser) (*adminuser.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	s.users[user.ID.Hex()] = &user
	return &user, nil
}

func (s *inMemoryUserStore) GetUserByEmail(email string) (*adminuser.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.New("user not found")
}

func (s *inMemoryUserStore) GetUserByID(userID string) (*adminuser.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *u
	return &copied, nil
}

func (s *inMemoryUserStore) GetAllUsers() ([]adminuser.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []adminuser.AdminUser{}
	for _, u := range s.users {
		copied := *u
		copied.Password = ""
		copied.RefreshTokens = nil
		users = append(users, copied)
	}
	return users, nil
}

func (s *inMemoryUserStore) UpdateLastLogin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.LastLoginAt = time.Now()
	return nil
}

func (s *inMemoryUserStore) UpdateProfile(userID string, name string, number string, address string, bio string, profilePic string) (*adminuser.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	if name != "" {
		u.Name = name
	}
	if number != "" {
		u.Number = number
	}
	if address != "" {
		u.Address = address
	}
	if bio != "" {
		u.Bio = bio
	}
	if profilePic != "" {
		u.ProfilePic = profilePic
	}
	copied := *u
	return &copied, nil
}

func (s *inMemoryUserStore) AddRefreshToken(userID string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.AddRefreshToken(token)
	return nil
}

func (s *inMemoryUserStore) ReplaceRefreshToken(userID string, oldToken string, newToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	if !u.HasRefreshToken(oldToken) {
		return mongo.ErrNoDocuments
	}
	u.ReplaceRefreshToken(oldToken, newToken)
	return nil
}

func (s *inMemoryUserStore) RemoveRefreshToken(userID string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.RemoveRefreshToken(token)
	return nil
}

func (s *inMemoryUserStore) ClearRefreshTokens(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.ClearRefreshTokens()
	return nil
}

func (s *inMemoryUserStore) setActive(userID string, isActive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.IsActive = isActive
	}
}

func (s *inMemoryUserStore) setRole(userID string, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Role = role
	}
}

func (s *inMemoryUserStore) sessionTokens(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	tokens := make([]string, len(u.RefreshTokens))
	copy(tokens, u.RefreshTokens)
	return tokens
}

type authTestEnv struct {
	router *gin.Engine
	store  *inMemoryUserStore
	userID string
}

func newAuthTestEnv(t *testing.T, isActive bool) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newInMemoryUserStore()
	password, err := pwhash.HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatal(err)
	}
	user, err := store.CreateUser(adminuser.AdminUser{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: password,
		Role:     adminuser.ROLE_ADMIN,
		IsActive: isActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	handler := NewHTTPHandler(
		"test-access-secret",
		"test-refresh-secret",
		TokenTTLs{
			AccessToken:  time.Hour,
			RefreshToken: 24 * time.Hour,
		},
		store,
		nil,
		nil,
		nil,
		nil,
		false,
		"",
	)

	router := gin.New()
	handler.AddStorefrontAPI(router.Group("/v1"))

	return &authTestEnv{
		router: router,
		store:  store,
		userID: user.ID.Hex(),
	}
}

func (env *authTestEnv) doLogin(t *testing.T, email string, password string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(gin.H{"email": email, "password": password})
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func cookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestLogin(t *testing.T) {
	t.Run("successful login sets cookies and returns token", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d (%s)", w.Code, w.Body.String())
		}

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Success || resp.Data.AccessToken == "" {
			t.Error("expected success with access token in body")
		}

		if cookieValue(w, "refreshToken") == "" {
			t.Error("refresh token cookie not set")
		}
		if cookieValue(w, "accessToken") == "" {
			t.Error("access token cookie not set")
		}

		if len(env.store.sessionTokens(env.userID)) != 1 {
			t.Error("expected one stored session")
		}
	})

	t.Run("wrong password fails with generic message", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := env.doLogin(t, "admin@example.com", "WrongSecret!")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
		var resp struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Message != "invalid email or password" {
			t.Errorf("unexpected message: %s", resp.Message)
		}
	})

	t.Run("unknown email fails with the same message", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := env.doLogin(t, "nobody@example.com", "Sup3rSecret!")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
		var resp struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Message != "invalid email or password" {
			t.Errorf("unexpected message: %s", resp.Message)
		}
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		env := newAuthTestEnv(t, false)
		w := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})

	t.Run("session list is capped", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		for i := 0; i < adminuser.MAX_SESSIONS+2; i++ {
			w := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
			if w.Code != http.StatusOK {
				t.Fatalf("login %d failed with status %d", i, w.Code)
			}
		}
		if got := len(env.store.sessionTokens(env.userID)); got != adminuser.MAX_SESSIONS {
			t.Errorf("expected %d sessions, got %d", adminuser.MAX_SESSIONS, got)
		}
	})
}

func TestRefreshToken(t *testing.T) {
	refreshWithCookie := func(env *authTestEnv, token string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: token})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid refresh rotates the session", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		oldToken := cookieValue(loginResp, "refreshToken")

		w := refreshWithCookie(env, oldToken)
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d (%s)", w.Code, w.Body.String())
		}

		newToken := cookieValue(w, "refreshToken")
		if newToken == "" || newToken == oldToken {
			t.Error("expected a fresh refresh token cookie")
		}

		tokens := env.store.sessionTokens(env.userID)
		if len(tokens) != 1 {
			t.Fatalf("expected one stored session, got %d", len(tokens))
		}
		if tokens[0] == oldToken {
			t.Error("old token should have been rotated away")
		}
	})

	t.Run("replaying a rotated token revokes all sessions", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		oldToken := cookieValue(loginResp, "refreshToken")

		if w := refreshWithCookie(env, oldToken); w.Code != http.StatusOK {
			t.Fatalf("first refresh failed: %d", w.Code)
		}

		w := refreshWithCookie(env, oldToken)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 on replay, got %d", w.Code)
		}
		if got := len(env.store.sessionTokens(env.userID)); got != 0 {
			t.Errorf("expected all sessions revoked, %d remain", got)
		}
	})

	t.Run("deactivated account cannot refresh with a valid token", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		token := cookieValue(loginResp, "refreshToken")

		env.store.setActive(env.userID, false)

		w := refreshWithCookie(env, token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for deactivated account, got %d", w.Code)
		}
	})

	t.Run("missing cookie fails", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		req, _ := http.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})

	t.Run("garbage token fails", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := refreshWithCookie(env, "not.a.jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Run("logout removes the session and clears cookies", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		token := cookieValue(loginResp, "refreshToken")

		req, _ := http.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: token})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", w.Code)
		}
		if got := len(env.store.sessionTokens(env.userID)); got != 0 {
			t.Errorf("expected no sessions after logout, got %d", got)
		}
		for _, c := range w.Result().Cookies() {
			if (c.Name == "refreshToken" || c.Name == "accessToken") && c.Value != "" {
				t.Errorf("cookie %s should be cleared", c.Name)
			}
		}
	})

	t.Run("logout without cookie still succeeds", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		req, _ := http.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})
}

func TestAccessGate(t *testing.T) {
	getMe := func(env *authTestEnv, authHeader string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	t.Run("bearer token grants access", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		w := getMe(env, "Bearer "+resp.Data.AccessToken)
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("access token cookie works as fallback", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		accessCookie := cookieValue(loginResp, "accessToken")

		req, _ := http.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: accessCookie})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := getMe(env, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		w := getMe(env, "Bearer not.a.jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", w.Code)
		}
	})

	t.Run("deactivated account is rejected with a valid token", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		env.store.setActive(env.userID, false)

		w := getMe(env, "Bearer "+resp.Data.AccessToken)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for deactivated account, got %d", w.Code)
		}
	})

	t.Run("admin role cannot list accounts", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		req, _ := http.NewRequest(http.MethodGet, "/v1/auth", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Data.AccessToken)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for non superadmin, got %d", w.Code)
		}
	})

	t.Run("demoted superadmin loses access immediately", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		password, err := pwhash.HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		root, err := env.store.CreateUser(adminuser.AdminUser{
			Name:     "Root",
			Email:    "root@example.com",
			Password: password,
			Role:     adminuser.ROLE_SUPERADMIN,
			IsActive: true,
		})
		if err != nil {
			t.Fatal(err)
		}

		loginResp := env.doLogin(t, "root@example.com", "Sup3rSecret!")
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		// the token still carries the superadmin role claim
		env.store.setRole(root.ID.Hex(), adminuser.ROLE_ADMIN)

		req, _ := http.NewRequest(http.MethodGet, "/v1/auth", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Data.AccessToken)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403 after demotion, got %d", w.Code)
		}
	})

	t.Run("superadmin can create and list accounts", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		password, err := pwhash.HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := env.store.CreateUser(adminuser.AdminUser{
			Name:     "Root",
			Email:    "root@example.com",
			Password: password,
			Role:     adminuser.ROLE_SUPERADMIN,
			IsActive: true,
		}); err != nil {
			t.Fatal(err)
		}

		loginResp := env.doLogin(t, "root@example.com", "Sup3rSecret!")
		if loginResp.Code != http.StatusOK {
			t.Fatalf("superadmin login failed: %d", loginResp.Code)
		}
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		authHeader := "Bearer " + resp.Data.AccessToken

		payload, _ := json.Marshal(gin.H{
			"name":     "New Admin",
			"email":    "new-admin@example.com",
			"password": "An0therSecret!",
			"role":     adminuser.ROLE_ADMIN,
		})
		req, _ := http.NewRequest(http.MethodPost, "/v1/auth/create", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", authHeader)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("create failed: %d (%s)", w.Code, w.Body.String())
		}

		req, _ = http.NewRequest(http.MethodGet, "/v1/auth", nil)
		req.Header.Set("Authorization", authHeader)
		w = httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("list failed: %d", w.Code)
		}
		var listResp struct {
			Data []adminuser.AdminUser `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
			t.Fatal(err)
		}
		if len(listResp.Data) != 3 {
			t.Errorf("expected 3 accounts, got %d", len(listResp.Data))
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("profile fields are updated", func(t *testing.T) {
		env := newAuthTestEnv(t, true)
		loginResp := env.doLogin(t, "admin@example.com", "Sup3rSecret!")
		var resp struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.Unmarshal(loginResp.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}

		payload, _ := json.Marshal(gin.H{"name": "Renamed", "bio": "hello"})
		req, _ := http.NewRequest(http.MethodPatch, "/v1/auth/update-profile", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+resp.Data.AccessToken)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d (%s)", w.Code, w.Body.String())
		}
		updated, err := env.store.GetUserByID(env.userID)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Name != "Renamed" || updated.Bio != "hello" {
			t.Errorf("profile not updated: %+v", updated)
		}
	})
}
