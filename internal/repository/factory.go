package repository

import (
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
	postgresRepo "github.com/healthbill/healthbill/internal/repository/postgres"
)

func NewPartyRepository(db *postgres.DB, logger *logger.Logger) party.Repository {
	return postgresRepo.NewPartyRepository(db, logger)
}

func NewAccountingRepository(db *postgres.DB, logger *logger.Logger) accounting.Repository {
	return postgresRepo.NewAccountingRepository(db, logger)
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return postgresRepo.NewProductRepository(db, logger)
}

func NewPriceListRepository(db *postgres.DB, logger *logger.Logger) pricelist.Repository {
	return postgresRepo.NewPriceListRepository(db, logger)
}

func NewInsuranceRepository(db *postgres.DB, logger *logger.Logger) insurance.Repository {
	return postgresRepo.NewInsuranceRepository(db, logger)
}

func NewHealthServiceRepository(db *postgres.DB, logger *logger.Logger) healthservice.Repository {
	return postgresRepo.NewHealthServiceRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewCommissionRepository(db *postgres.DB, logger *logger.Logger) commission.Repository {
	return postgresRepo.NewCommissionRepository(db, logger)
}
