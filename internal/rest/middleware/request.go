package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/types"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTenantID  = "X-Tenant-ID"
	HeaderUserID    = "X-User-ID"
)

// RequestIDMiddleware propagates the caller's request id or assigns a new one
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	c.Request = c.Request.WithContext(types.SetRequestID(c.Request.Context(), requestID))
	c.Header(HeaderRequestID, requestID)

	c.Next()
}

// TenantMiddleware scopes the request to the tenant and user named in the headers,
// falling back to the default tenant and user
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	userID := c.GetHeader(HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetTenantID(c.Request.Context(), tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
