package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig - limits applied to one group of endpoints
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

type bucket struct {
	count     int
	resetAt   time.Time
	blockedAt time.Time
	lastSeen  time.Time
}

// RateLimiter - in-memory throttle keyed by scope and client IP
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter - creates the limiter and starts periodic cleanup
func NewRateLimiter(cleanupEvery time.Duration) *RateLimiter {
	rl := &RateLimiter{buckets: make(map[string]*bucket)}
	go rl.evictStale(cleanupEvery)
	return rl
}

func (rl *RateLimiter) evictStale(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-24 * time.Hour)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// allow counts one request against the key's fixed window. Exceeding the
// window puts the key on a block list for cfg.BlockDuration.
func (rl *RateLimiter) allow(key string, cfg RateLimitConfig) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	if !b.blockedAt.IsZero() {
		if now.Sub(b.blockedAt) < cfg.BlockDuration {
			return false
		}
		b.blockedAt = time.Time{}
		b.count = 0
	}

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(cfg.TimeWindow)
	}

	b.count++
	if b.count > cfg.MaxRequests {
		b.blockedAt = now
		return false
	}

	return true
}

func (rl *RateLimiter) limit(scope, title string, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		if !rl.allow(key, cfg) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   title,
				"message": title + ". Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware - general rate limiting for token endpoints
func (rl *RateLimiter) RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.limit("general", "Too many requests", cfg)
}

// LoginRateLimitMiddleware - stricter limits for the login endpoint
func (rl *RateLimiter) LoginRateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.limit("login", "Too many login attempts", cfg)
}

// RegistrationRateLimitMiddleware - limits repeated registrations per IP
func (rl *RateLimiter) RegistrationRateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.limit("register", "Too many registration attempts", cfg)
}

// VerificationRateLimitMiddleware - limits verification email resends
func (rl *RateLimiter) VerificationRateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.limit("verification", "Too many verification attempts", cfg)
}
