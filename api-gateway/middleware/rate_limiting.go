package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"inventra-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig - Fixed window limits applied per client IP
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimitConfig - Reads the gateway limits from environment variables
func NewRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()

	return RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}
}

type clientWindow struct {
	hits       int
	windowEnd  time.Time
	blockedTil time.Time
	lastSeen   time.Time
}

// RateLimiter - Per-IP request throttle shared by all gateway routes
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
}

// NewRateLimiter - Creates the limiter and starts its janitor
func NewRateLimiter(sweepEvery time.Duration) *RateLimiter {
	rl := &RateLimiter{clients: make(map[string]*clientWindow)}
	go rl.sweep(sweepEvery)
	return rl
}

// sweep drops clients that have been idle for a day
func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-24 * time.Hour)
		rl.mu.Lock()
		for ip, w := range rl.clients {
			if w.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// take records one request for the client and reports whether it may pass.
// The second return value is how many requests remain in the current window.
func (rl *RateLimiter) take(ip string, cfg RateLimitConfig) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[ip]
	if !ok {
		w = &clientWindow{}
		rl.clients[ip] = w
	}
	w.lastSeen = now

	if now.Before(w.blockedTil) {
		return false, 0
	}

	if now.After(w.windowEnd) {
		w.hits = 0
		w.windowEnd = now.Add(cfg.TimeWindow)
	}

	w.hits++
	if w.hits > cfg.MaxRequests {
		w.blockedTil = now.Add(cfg.BlockDuration)
		return false, 0
	}

	return true, cfg.MaxRequests - w.hits
}

// GlobalRateLimitMiddleware - Throttles every request entering the gateway
func (rl *RateLimiter) GlobalRateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, remaining := rl.take(ip, cfg)
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			log.Printf("🚫 Rate limit hit for %s", ip)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     "Too many requests from this IP. Please try again later.",
				"retry_after": cfg.BlockDuration.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
