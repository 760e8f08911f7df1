package middlewares

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/babulal-jewellers/storefront-backend/pkg/cache"
	"github.com/gin-gonic/gin"
)

// CacheKeyFn derives the cache key from the request. For fixed keys use
// StaticCacheKey.
type CacheKeyFn func(c *gin.Context) string

func StaticCacheKey(key string) CacheKeyFn {
	return func(c *gin.Context) string {
		return key
	}
}

type cachingResponseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cachingResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponse serves a stored copy of the response when present and
// otherwise captures the handler's output. Only 200 responses are
// stored. When the cache is unavailable the request passes through
// untouched.
func CacheResponse(cacheService *cache.CacheService, keyFn CacheKeyFn, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cacheService.IsReady() {
			c.Next()
			return
		}

		key := keyFn(c)

		cached, err := cacheService.Get(key)
		if err != nil {
			slog.Warn("cache lookup failed", slog.String("key", key), slog.String("error", err.Error()))
			c.Next()
			return
		}
		if cached != "" {
			slog.Debug("cache hit", slog.String("key", key))
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}
		slog.Debug("cache miss", slog.String("key", key))

		writer := &cachingResponseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			if err := cacheService.Set(key, writer.body.String(), ttl); err != nil {
				slog.Warn("cache store failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
	}
}
