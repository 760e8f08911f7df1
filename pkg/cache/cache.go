package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotReady = errors.New("cache not ready")

type RedisConfig struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Timeout  int    `yaml:"timeout"`
}

// CacheService wraps the Redis client for best-effort response caching.
// When the connection could not be established the service stays usable
// and every operation reports ErrNotReady, so callers fall through to
// their data source.
type CacheService struct {
	client  *redis.Client
	timeout time.Duration
	ready   bool
}

func NewCacheService(config RedisConfig) *CacheService {
	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Username: config.Username,
		Password: config.Password,
		DB:       config.DB,
	})

	cs := &CacheService{
		client:  client,
		timeout: timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("could not connect to redis, caching disabled", slog.String("error", err.Error()))
		return cs
	}
	cs.ready = true
	slog.Info("connected to redis", slog.String("address", config.Address))
	return cs
}

// NewCacheServiceWithClient is used by tests to inject a prepared client.
func NewCacheServiceWithClient(client *redis.Client, timeout time.Duration) *CacheService {
	return &CacheService{
		client:  client,
		timeout: timeout,
		ready:   true,
	}
}

func (cs *CacheService) IsReady() bool {
	return cs != nil && cs.ready
}

func (cs *CacheService) getContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cs.timeout)
}

func (cs *CacheService) Get(key string) (string, error) {
	if !cs.IsReady() {
		return "", ErrNotReady
	}
	ctx, cancel := cs.getContext()
	defer cancel()

	value, err := cs.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("cache get failed for %s: %w", key, err)
	}
	return value, nil
}

func (cs *CacheService) Set(key string, value string, ttl time.Duration) error {
	if !cs.IsReady() {
		return ErrNotReady
	}
	ctx, cancel := cs.getContext()
	defer cancel()

	if err := cs.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed for %s: %w", key, err)
	}
	return nil
}

func (cs *CacheService) Delete(keys ...string) error {
	if !cs.IsReady() {
		return ErrNotReady
	}
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := cs.getContext()
	defer cancel()

	if err := cs.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// InvalidatePattern removes all keys matching the glob pattern. It walks
// the keyspace with SCAN so it never blocks the server like KEYS would.
func (cs *CacheService) InvalidatePattern(pattern string) (int64, error) {
	if !cs.IsReady() {
		return 0, ErrNotReady
	}
	ctx, cancel := cs.getContext()
	defer cancel()

	var removed int64
	var cursor uint64
	for {
		keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("cache scan failed for %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			deleted, err := cs.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("cache delete failed for %s: %w", pattern, err)
			}
			removed += deleted
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}

// InvalidatePatterns is a convenience for write paths that touch
// multiple cache namespaces. Failures are logged, not returned, since
// cache invalidation must never fail the request.
func (cs *CacheService) InvalidatePatterns(patterns ...string) {
	if !cs.IsReady() {
		return
	}
	for _, pattern := range patterns {
		if _, err := cs.InvalidatePattern(pattern); err != nil {
			slog.Error("cache invalidation failed", slog.String("pattern", pattern), slog.String("error", err.Error()))
		}
	}
}

func (cs *CacheService) Close() error {
	if cs == nil || cs.client == nil {
		return nil
	}
	return cs.client.Close()
}
