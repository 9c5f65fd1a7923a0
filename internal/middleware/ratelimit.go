package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/mindtrack/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed window length
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the number of requests allowed per IP per window
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimit is a Redis fixed-window limiter shared across server instances.
// A nil client disables it, and Redis errors let the request through.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()

			key := RateLimitKeyPrefix + clientip.RealClientIP(r)

			n, err := client.Incr(ctx, key).Result()
			if err != nil {
				// Fail open
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				client.Expire(ctx, key, window)
			}

			count := int(n)
			if count > maxRequests {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(window.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(maxRequests-count))
			next.ServeHTTP(w, r)
		})
	}
}
