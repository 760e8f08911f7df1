package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/babulal-jewellers/storefront-backend/pkg/cache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newTestRouter(t *testing.T, cacheService *cache.CacheService, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items",
		CacheResponse(cacheService, StaticCacheKey("items:all"), time.Minute),
		handler,
	)
	return router
}

func TestCacheResponse(t *testing.T) {
	t.Run("second request is served from cache", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cacheService := cache.NewCacheServiceWithClient(client, 5*time.Second)

		calls := 0
		router := newTestRouter(t, cacheService, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"success": true, "data": []string{"a"}})
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/items", nil)
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", w.Code)
			}
		}

		if calls != 1 {
			t.Errorf("handler should run once, ran %d times", calls)
		}
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cacheService := cache.NewCacheServiceWithClient(client, 5*time.Second)

		calls := 0
		router := newTestRouter(t, cacheService, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "boom"})
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/items", nil)
			router.ServeHTTP(w, req)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("unexpected status: %d", w.Code)
			}
		}

		if calls != 2 {
			t.Errorf("handler should run twice, ran %d times", calls)
		}
	})

	t.Run("unready cache passes requests through", func(t *testing.T) {
		cacheService := &cache.CacheService{}

		calls := 0
		router := newTestRouter(t, cacheService, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/items", nil)
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("unexpected status: %d", w.Code)
			}
		}

		if calls != 2 {
			t.Errorf("handler should run twice, ran %d times", calls)
		}
	})

	t.Run("write path invalidation empties the namespace", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cacheService := cache.NewCacheServiceWithClient(client, 5*time.Second)

		calls := 0
		router := newTestRouter(t, cacheService, func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/items", nil)
		router.ServeHTTP(w, req)

		cacheService.InvalidatePatterns("items:*")

		w = httptest.NewRecorder()
		req, _ = http.NewRequest(http.MethodGet, "/items", nil)
		router.ServeHTTP(w, req)

		if calls != 2 {
			t.Errorf("handler should run twice after invalidation, ran %d times", calls)
		}
	})
}
