package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/api"
	v1 "github.com/healthbill/healthbill/internal/api/v1"
	"github.com/healthbill/healthbill/internal/cache"
	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/repository"
	"github.com/healthbill/healthbill/internal/service"
	"github.com/healthbill/healthbill/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// request DTOs validate through the package level validator
	validator.NewValidator()

	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,
			cache.NewCache,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewPartyRepository,
			repository.NewAccountingRepository,
			repository.NewProductRepository,
			repository.NewPriceListRepository,
			repository.NewInsuranceRepository,
			repository.NewHealthServiceRepository,
			repository.NewInvoiceRepository,
			repository.NewCommissionRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewHealthServiceInvoiceService,
			service.NewInvoiceService,
			service.NewCommissionService,
			service.NewPaymentService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	healthServiceInvoiceService service.HealthServiceInvoiceService,
	invoiceService service.InvoiceService,
	commissionService service.CommissionService,
	paymentService service.PaymentService,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(logger),
		HealthService: v1.NewHealthServiceHandler(healthServiceInvoiceService, logger),
		Invoice:       v1.NewInvoiceHandler(invoiceService, paymentService, logger),
		Commission:    v1.NewCommissionHandler(commissionService, logger),
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
