package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleCutoff    = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit provides per-IP token-bucket rate limiting: r requests per
// second with burst b. Limiters idle past the cutoff are swept so the
// map does not grow with every IP ever seen.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	clients := &sync.Map{}

	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-limiterIdleCutoff)
			clients.Range(func(k, v interface{}) bool {
				if v.(*clientLimiter).lastSeen.Before(cutoff) {
					clients.Delete(k)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		v, _ := clients.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(r, b)})
		cl := v.(*clientLimiter)
		cl.lastSeen = time.Now()
		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
