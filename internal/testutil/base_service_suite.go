package testutil

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/cache"
	"github.com/healthbill/healthbill/internal/config"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/healthbill/healthbill/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the in-memory repositories used by service tests
type Stores struct {
	PartyRepo         *InMemoryPartyStore
	AccountingRepo    *InMemoryAccountingStore
	ProductRepo       *InMemoryProductStore
	PriceListRepo     *InMemoryPriceListStore
	InsuranceRepo     *InMemoryInsuranceStore
	HealthServiceRepo *InMemoryHealthServiceStore
	InvoiceRepo       *InMemoryInvoiceStore
	CommissionRepo    *InMemoryCommissionStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *MockPostgresClient
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PartyRepo:         NewInMemoryPartyStore(),
		AccountingRepo:    NewInMemoryAccountingStore(),
		ProductRepo:       NewInMemoryProductStore(),
		PriceListRepo:     NewInMemoryPriceListStore(),
		InsuranceRepo:     NewInMemoryInsuranceStore(),
		HealthServiceRepo: NewInMemoryHealthServiceStore(),
		InvoiceRepo:       NewInMemoryInvoiceStore(),
		CommissionRepo:    NewInMemoryCommissionStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	// a fresh cache per test keeps cached price lists from leaking between tests
	s.cache = cache.NewCache(cache.NewInMemoryCache(s.config, s.logger))
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PartyRepo.Clear()
	s.stores.AccountingRepo.Clear()
	s.stores.ProductRepo.Clear()
	s.stores.PriceListRepo.Clear()
	s.stores.InsuranceRepo.Clear()
	s.stores.HealthServiceRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.CommissionRepo.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetCache returns the per test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
