package middleware

import (
	"net/http"
	"sync"
	"time"

	"korecatalog/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipLimiter is a fixed-window per-IP counter. One instance per middleware,
// no package-level state, so independent routes get independent budgets.
type ipLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
	go l.purgeLoop()
	return l
}

// allow counts one request for ip and reports whether it fits the window,
// returning the window reset time for the Retry-After header.
func (l *ipLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[ip] = b
	}
	b.count++
	return b.count <= l.limit, b.resetAt
}

// purgeLoop drops expired buckets so IPs that never return don't accumulate.
func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0
		l.mu.Lock()
		for ip, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, ip)
				purged++
			}
		}
		l.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter buckets purged")
		}
	}
}

// AuthRateLimiter caps register and login attempts at 20 per minute per IP.
func AuthRateLimiter() gin.HandlerFunc {
	l := newIPLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many attempts, retry in a minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general API limiter applied to the whole router.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	return func(c *gin.Context) {
		ok, resetAt := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, slow down"))
			return
		}
		c.Next()
	}
}
