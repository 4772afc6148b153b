package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterStaleAfter = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a per-client-IP token bucket of r requests per
// second with burst b. Buckets idle longer than limiterStaleAfter are
// swept periodically.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var limiters sync.Map

	go func() {
		ticker := time.NewTicker(limiterSweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-limiterStaleAfter)
			limiters.Range(func(k, v interface{}) bool {
				if v.(*ipLimiter).lastSeen.Before(cutoff) {
					limiters.Delete(k)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		v, _ := limiters.LoadOrStore(c.ClientIP(), &ipLimiter{limiter: rate.NewLimiter(r, b)})
		il := v.(*ipLimiter)
		il.lastSeen = time.Now()
		if !il.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
