package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/cache"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(perSecond float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TenantMiddleware, RateLimitMiddleware(perSecond, burst))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doPing(r *gin.Engine, tenantID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if tenantID != "" {
		req.Header.Set(HeaderTenantID, tenantID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newLimitedRouter(0.001, 1)

	assert.Equal(t, http.StatusOK, doPing(r, "tenant_a").Code)

	w := doPing(r, "tenant_a")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var resp ierr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, ierr.ErrCodeRateLimited, resp.Error.Code)

	// every tenant has its own budget
	assert.Equal(t, http.StatusOK, doPing(r, "tenant_b").Code)
	assert.Equal(t, http.StatusOK, doPing(r, "").Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	r := newLimitedRouter(0, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, "tenant_a").Code)
	}
}

func TestTenantLimiters_IdleExpiry(t *testing.T) {
	ctx := context.Background()
	limiters := newTenantLimiters(0.001, 1)
	assert.Equal(t, 1000*time.Second, limiters.idle)

	limiters = newTenantLimiters(1000, 10)
	assert.Equal(t, time.Minute, limiters.idle)

	limiters.idle = 20 * time.Millisecond
	limiters.cache = cache.NewLocalCache(limiters.idle)

	first := limiters.get(ctx, "tenant_a")
	assert.Same(t, first, limiters.get(ctx, "tenant_a"))
	assert.NotSame(t, first, limiters.get(ctx, "tenant_b"))

	// an idle bucket is dropped and the tenant starts over with a full one
	time.Sleep(60 * time.Millisecond)
	assert.NotSame(t, first, limiters.get(ctx, "tenant_a"))
}
