package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/cache"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"golang.org/x/time/rate"
)

const (
	prefixRateLimiter = "rate_limiter:v1:"
	minLimiterIdle    = time.Minute
)

// tenantLimiters keeps one token bucket per tenant. A bucket idle for burst/rate
// is full again, so dropping it after that long loses nothing.
type tenantLimiters struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	idle  time.Duration
	cache cache.Cache
}

func newTenantLimiters(perSecond float64, burst int) *tenantLimiters {
	idle := time.Duration(float64(burst) / perSecond * float64(time.Second))
	if idle < minLimiterIdle {
		idle = minLimiterIdle
	}
	return &tenantLimiters{
		limit: rate.Limit(perSecond),
		burst: burst,
		idle:  idle,
		cache: cache.NewLocalCache(idle),
	}
}

func (t *tenantLimiters) get(ctx context.Context, tenantID string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := cache.GenerateKey(prefixRateLimiter, tenantID)
	l, ok := t.cache.Get(ctx, key)
	if !ok {
		l = rate.NewLimiter(t.limit, t.burst)
	}
	// every request pushes the expiry back
	t.cache.Set(ctx, key, l, t.idle)
	return l.(*rate.Limiter)
}

// RateLimitMiddleware throttles each tenant to perSecond requests with the given burst.
// It must run after TenantMiddleware. A non positive perSecond disables it.
func RateLimitMiddleware(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if burst < 1 {
		burst = 1
	}

	limiters := newTenantLimiters(perSecond, burst)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if !limiters.get(ctx, types.GetTenantID(ctx)).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ierr.ErrorResponse{
				Success: false,
				Error: ierr.ErrorDetail{
					Code:    ierr.ErrCodeRateLimited,
					Display: "Too many requests, please retry later",
				},
			})
			return
		}
		c.Next()
	}
}
