package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func newRateLimitedRouter(ctx context.Context, rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, rps, burst, discardLogger()))
	router.POST("/v1/keychain/generic/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"error": "", "result": "ok"})
	})
	return router
}

func requestFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/keychain/generic/get", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("Success_AllowsRequestsWithinLimit", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		router := newRateLimitedRouter(ctx, 10, 20)

		for range 5 {
			assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:1234").Code)
		}
	})

	t.Run("Error_BlocksRequestsExceedingBurst", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		router := newRateLimitedRouter(ctx, 1, 2)

		for range 2 {
			assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:1234").Code)
		}

		w := requestFrom(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.JSONEq(t, `{"error":"too many requests, retry later","result":""}`, w.Body.String())

		retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, retryAfter, 1)
	})

	t.Run("Success_LimitsArePerIP", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		router := newRateLimitedRouter(ctx, 0.001, 1)

		assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusTooManyRequests, requestFrom(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.2:1234").Code)
	})

	t.Run("Success_CleanupStopsWithContext", func(t *testing.T) {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		ctx, cancel := context.WithCancel(context.Background())
		router := newRateLimitedRouter(ctx, 10, 20)
		assert.Equal(t, http.StatusOK, requestFrom(router, "10.0.0.1:1234").Code)
		cancel()
	})
}

func TestRetryAfterSeconds(t *testing.T) {
	t.Run("Success_WaitsForNextToken", func(t *testing.T) {
		limiter := rate.NewLimiter(rate.Limit(0.25), 1)
		require.True(t, limiter.Allow())
		assert.Equal(t, 4, retryAfterSeconds(limiter))
	})

	t.Run("Success_AtLeastOneSecond", func(t *testing.T) {
		limiter := rate.NewLimiter(rate.Limit(100), 1)
		require.True(t, limiter.Allow())
		assert.Equal(t, 1, retryAfterSeconds(limiter))
	})
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")

	val, ok := store.limiters.Load("10.0.0.1")
	require.True(t, ok)
	val.(*rateLimiterEntry).touch(time.Now().Add(-2 * time.Hour))

	store.removeIdle(time.Now().Add(-time.Hour))

	_, ok = store.limiters.Load("10.0.0.1")
	assert.False(t, ok)
	_, ok = store.limiters.Load("10.0.0.2")
	assert.True(t, ok)
}
