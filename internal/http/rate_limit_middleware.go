package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/keychain/internal/httputil"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterMaxIdle       = time.Hour
)

// rateLimiterStore keeps one token bucket per client IP.
type rateLimiterStore struct {
	limiters sync.Map // client IP -> *rateLimiterEntry
	rps      float64
	burst    int
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

func (e *rateLimiterEntry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

// RateLimitMiddleware limits each client IP to rps requests per second with the given burst.
// Rejected requests get 429 and a Retry-After header in whole seconds. Buckets idle for an hour
// are swept by a goroutine that exits when ctx is done.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst}
	go store.sweep(ctx, limiterSweepInterval, limiterMaxIdle)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.getLimiter(clientIP)

		if limiter.Allow() {
			c.Next()
			return
		}

		retryAfter := retryAfterSeconds(limiter)
		logger.Debug("rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter),
		)

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
			Error: "too many requests, retry later",
		})
	}
}

// retryAfterSeconds is the wait until limiter holds a full token again, at least one second.
func retryAfterSeconds(limiter *rate.Limiter) int {
	missing := 1 - limiter.Tokens()
	if missing <= 0 || limiter.Limit() <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(missing/float64(limiter.Limit()))))
}

func (s *rateLimiterStore) getLimiter(clientIP string) *rate.Limiter {
	now := time.Now()
	if val, ok := s.limiters.Load(clientIP); ok {
		entry := val.(*rateLimiterEntry)
		entry.touch(now)
		return entry.limiter
	}

	entry := &rateLimiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
	entry.touch(now)
	actual, _ := s.limiters.LoadOrStore(clientIP, entry)
	return actual.(*rateLimiterEntry).limiter
}

func (s *rateLimiterStore) sweep(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.removeIdle(now.Add(-maxIdle))
		}
	}
}

// removeIdle drops every bucket last used before threshold.
func (s *rateLimiterStore) removeIdle(threshold time.Time) {
	cutoff := threshold.UnixNano()
	s.limiters.Range(func(key, value any) bool {
		if value.(*rateLimiterEntry).lastSeen.Load() < cutoff {
			s.limiters.Delete(key)
		}
		return true
	})
}
