package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commerce/backend/internal/interfaces/http/dto"
)

type rateLimitClient struct {
	prevCount   int
	currCount   int
	windowStart time.Time
	lastSeen    time.Time
}

// RateLimiter is an in-memory sliding-window rate limiter keyed by client.
// The previous window's count is weighted by its remaining overlap with the
// sliding window, so a burst at a window boundary cannot double the rate.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   int
	window  time.Duration
	done    chan struct{}
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		window:  window,
		done:    make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, c := range rl.clients {
				if time.Since(c.lastSeen) >= 2*rl.window {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Allow reports whether a request for the given key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	return rl.allowAt(key, time.Now())
}

func (rl *RateLimiter) allowAt(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c := rl.roll(key, now)
	if rl.weightedCount(c, now) >= float64(rl.limit) {
		return false
	}

	c.currCount++
	c.lastSeen = now
	return true
}

// roll advances the client's window bookkeeping to cover now
func (rl *RateLimiter) roll(key string, now time.Time) *rateLimitClient {
	c, exists := rl.clients[key]
	if !exists || now.Sub(c.windowStart) >= 2*rl.window {
		c = &rateLimitClient{windowStart: now, lastSeen: now}
		rl.clients[key] = c
		return c
	}

	if now.Sub(c.windowStart) >= rl.window {
		c.prevCount = c.currCount
		c.currCount = 0
		c.windowStart = c.windowStart.Add(rl.window)
	}

	return c
}

// weightedCount estimates the request count over the window ending at now
func (rl *RateLimiter) weightedCount(c *rateLimitClient, now time.Time) float64 {
	elapsed := now.Sub(c.windowStart)
	weight := 1 - float64(elapsed)/float64(rl.window)
	if weight < 0 {
		weight = 0
	}
	return float64(c.prevCount)*weight + float64(c.currCount)
}

// Remaining returns how many requests the key has left in the window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, exists := rl.clients[key]
	if !exists {
		return rl.limit
	}

	remaining := rl.limit - int(rl.weightedCount(c, time.Now()))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RateLimit returns a middleware limiting requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited,
					"too many requests", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
