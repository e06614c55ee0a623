package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// one limiter per IP, plus lastSeen for cleanup
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps a token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	reqPerMin int
	burst     int
	ttl       time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewIPRateLimiter allows reqPerMin requests per minute per IP with the given burst.
// IPs idle for longer than ttl are forgotten.
func NewIPRateLimiter(reqPerMin, burst int, ttl time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		reqPerMin: reqPerMin,
		burst:     burst,
		ttl:       ttl,
		done:      make(chan struct{}),
	}
	go rl.cleanupVisitors(time.Minute)
	return rl
}

// Close stops the cleanup goroutine.
func (rl *IPRateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[ip]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}

	// req/min -> rate.Limit (req/s)
	rps := float64(rl.reqPerMin) / 60.0
	limiter := rate.NewLimiter(rate.Limit(rps), rl.burst)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (rl *IPRateLimiter) cleanupVisitors(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *IPRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

// OverLimit aborts with 429 when the client IP has used up its tokens in rl.
// A nil limiter never limits.
func OverLimit(c *gin.Context, rl *IPRateLimiter) bool {
	if rl == nil || rl.Allow(c.ClientIP()) {
		return false
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"message": "Too Many Requests",
		"hint":    "Please try again in a few minutes.",
	})
	return true
}

// RateLimitByIP rejects requests over the limit with 429. A nil limiter lets everything through.
func RateLimitByIP(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if OverLimit(c, rl) {
			return
		}
		c.Next()
	}
}
