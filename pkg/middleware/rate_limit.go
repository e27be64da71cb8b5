package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/recipebox/pkg/metrics"
	"golang.org/x/time/rate"
)

// MemoryLimiter is a per-key in-memory token-bucket store.
type MemoryLimiter struct {
	rps   float64
	burst int
	store sync.Map // map[string]*rate.Limiter
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{rps: rps, burst: burst}
}

// Allow consumes one token from key's bucket, creating it on first use.
func (m *MemoryLimiter) Allow(key string) bool {
	v, ok := m.store.Load(key)
	if !ok {
		v, _ = m.store.LoadOrStore(key, rate.NewLimiter(rate.Limit(m.rps), m.burst))
	}
	return v.(*rate.Limiter).Allow()
}

// clientKey picks the limiter key for a request. Recipes are not owned by
// users, so the client IP is the only identity available.
func clientKey(c *gin.Context, prefix string) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return prefix + "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket limit per client IP.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	lim := NewMemoryLimiter(rps, burst)
	return func(c *gin.Context) {
		if !lim.Allow(clientKey(c, "")) {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
