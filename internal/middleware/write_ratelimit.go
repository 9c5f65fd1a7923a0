package middleware

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mindtrack/pkg/clientip"
)

// Writes are limited per IP more tightly than reads: 30/min, burst 10.
const (
	writeRateLimitRPS   = 0.5
	writeRateLimitBurst = 10
	writeLimiterTTL     = 30 * time.Minute
	writeCleanupPeriod  = 5 * time.Minute
)

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// WriteRateLimit applies l to mutating requests only and returns 429 when
// the caller's bucket is empty.
func WriteRateLimit(l *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isWrite(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
			if !l.get(clientip.RealClientIP(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Too many write requests. Please slow down."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewWriteRateLimit builds the default write limiter and sweeps it until
// stop is closed.
func NewWriteRateLimit(stop <-chan struct{}) func(http.Handler) http.Handler {
	l := NewIPRateLimiter(rate.Limit(writeRateLimitRPS), writeRateLimitBurst, writeLimiterTTL)
	go l.RunSweeper(writeCleanupPeriod, stop)
	return WriteRateLimit(l)
}
