package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/healthbill/healthbill/internal/api/v1"
	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/rest/middleware"
	"github.com/healthbill/healthbill/internal/types"
)

type Handlers struct {
	Health        *v1.HealthHandler
	HealthService *v1.HealthServiceHandler
	Invoice       *v1.InvoiceHandler
	Commission    *v1.CommissionHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	v1Group.Use(
		middleware.TenantMiddleware,
		middleware.RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	healthServices := router.Group("/health-services")
	{
		healthServices.POST("/invoice", handlers.HealthService.CreateInvoices)
	}

	invoices := router.Group("/invoices")
	{
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.POST("/:id/post", handlers.Invoice.PostInvoice)
		invoices.POST("/:id/pay", handlers.Invoice.MarkPaid)
		invoices.POST("/:id/payments/validate", handlers.Invoice.ValidatePayment)
	}

	commissions := router.Group("/commissions")
	{
		commissions.POST("/generate", handlers.Commission.GenerateForPaidInvoices)
	}

	agents := router.Group("/agents")
	{
		agents.GET("/:id/commissions", handlers.Commission.ListAgentCommissions)
	}
}
