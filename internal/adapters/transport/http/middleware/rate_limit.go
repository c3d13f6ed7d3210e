package middleware

import (
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	// last is the UnixNano of the most recent request; written on every
	// request and read by the sweeper, so it must stay atomic.
	last atomic.Int64
}

// RateLimitPerIP caps requests per client IP with an LRU of token buckets.
// Idle entries are swept once per ttl; the sweeper lives as long as the
// process, like the middleware itself.
func RateLimitPerIP(limit, burst, cacheSize int, ttl time.Duration) gin.HandlerFunc {
	visitors, _ := lru.New[string, *visitor](cacheSize)

	go func() {
		ticker := time.NewTicker(ttl)
		for range ticker.C {
			for _, key := range visitors.Keys() {
				if v, ok := visitors.Peek(key); ok && time.Since(time.Unix(0, v.last.Load())) > ttl {
					visitors.Remove(key)
				}
			}
		}
	}()

	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}

		v, ok := visitors.Get(host)
		if !ok {
			// PeekOrAdd keeps exactly one limiter per IP even when two
			// first requests race on the same address.
			cand := &visitor{limiter: rate.NewLimiter(rate.Limit(limit), burst)}
			if prev, existed, _ := visitors.PeekOrAdd(host, cand); existed {
				v = prev
			} else {
				v = cand
			}
		}
		v.last.Store(time.Now().UnixNano())

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
