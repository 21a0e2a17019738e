package service

import (
	"github.com/healthbill/healthbill/internal/cache"
	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/domain/accounting"
	"github.com/healthbill/healthbill/internal/domain/commission"
	"github.com/healthbill/healthbill/internal/domain/healthservice"
	"github.com/healthbill/healthbill/internal/domain/insurance"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	"github.com/healthbill/healthbill/internal/domain/party"
	"github.com/healthbill/healthbill/internal/domain/pricelist"
	"github.com/healthbill/healthbill/internal/domain/product"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	PartyRepo         party.Repository
	AccountingRepo    accounting.Repository
	ProductRepo       product.Repository
	PriceListRepo     pricelist.Repository
	InsuranceRepo     insurance.Repository
	HealthServiceRepo healthservice.Repository
	InvoiceRepo       invoice.Repository
	CommissionRepo    commission.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	partyRepo party.Repository,
	accountingRepo accounting.Repository,
	productRepo product.Repository,
	priceListRepo pricelist.Repository,
	insuranceRepo insurance.Repository,
	healthServiceRepo healthservice.Repository,
	invoiceRepo invoice.Repository,
	commissionRepo commission.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		Cache:             cache,
		PartyRepo:         partyRepo,
		AccountingRepo:    accountingRepo,
		ProductRepo:       productRepo,
		PriceListRepo:     priceListRepo,
		InsuranceRepo:     insuranceRepo,
		HealthServiceRepo: healthServiceRepo,
		InvoiceRepo:       invoiceRepo,
		CommissionRepo:    commissionRepo,
	}
}
