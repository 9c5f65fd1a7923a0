package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// cacheVersionPrefix holds one generation counter per cache scope
	cacheVersionPrefix = "cache:ver:"
	// DefaultCacheTTL applies when the configured TTL is not positive
	DefaultCacheTTL = 5 * time.Minute
	// MaxCacheTTL bounds how stale a cached list may become
	MaxCacheTTL = 1 * time.Hour
)

// CacheService caches list responses in Redis. A nil *CacheService or a nil
// client is a valid no-op cache; cache errors never fail a request.
//
// Entries live under a per-scope generation. Writers bump the generation
// instead of deleting, so a list computed before a write can only ever be
// stored under the old generation and is never read again.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}
	return &CacheService{client: client, ttl: ttl}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current generation of scope. ok is false when the
// cache is disabled or Redis cannot be read, in which case callers must not
// cache.
func (c *CacheService) Version(ctx context.Context, scope string) (version int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	val, err := c.client.Get(ctx, cacheVersionPrefix+scope).Result()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Invalidate moves scope to a new generation.
func (c *CacheService) Invalidate(ctx context.Context, scope string) {
	if !c.enabled() {
		return
	}
	c.client.Incr(ctx, cacheVersionPrefix+scope)
}

// Get retrieves a value from cache. A miss or decode failure returns false.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value with the service TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, CacheKeyPrefix+key, data, c.ttl)
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// VersionedKey is the key of scope's cached value at a generation.
func VersionedKey(scope string, version int64) string {
	return fmt.Sprintf("%s:v%d", scope, version)
}
