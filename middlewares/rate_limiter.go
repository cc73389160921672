package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewRateLimiter allows requests per interval seconds for each IP.
func NewRateLimiter(requests int, interval int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(float64(requests) / float64(interval)),
		burst:    requests,
		limiters: make(map[string]*rate.Limiter),
	}
}

// NewStrictRateLimiter is meant for login and register: 5 attempts per minute per IP.
func NewStrictRateLimiter() *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(time.Minute / 5),
		burst:    5,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = limiter
	}
	return limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many requests, please wait a moment",
			})
			return
		}
		c.Next()
	}
}
