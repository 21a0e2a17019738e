package service

import (
	"context"
	"testing"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/domain/accounting"
	"github.com/healthbill/healthbill/internal/domain/healthservice"
	"github.com/healthbill/healthbill/internal/domain/insurance"
	"github.com/healthbill/healthbill/internal/domain/party"
	"github.com/healthbill/healthbill/internal/domain/pricelist"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/testutil"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type HealthServiceInvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  HealthServiceInvoiceService
	fixtures *billingFixtures
}

func TestHealthServiceInvoiceService(t *testing.T) {
	suite.Run(t, new(HealthServiceInvoiceServiceSuite))
}

func (s *HealthServiceInvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewHealthServiceInvoiceService(newTestParams(&s.BaseServiceTestSuite))
	s.fixtures = seedBillingFixtures(&s.BaseServiceTestSuite)
}

func (s *HealthServiceInvoiceServiceSuite) createService(svc *healthservice.HealthService) {
	s.NoError(s.GetStores().HealthServiceRepo.Create(s.GetContext(), svc))
}

func (s *HealthServiceInvoiceServiceSuite) invoice(ids ...string) (*dto.CreateServiceInvoicesResponse, error) {
	return s.service.CreateInvoices(s.GetContext(), dto.CreateServiceInvoicesRequest{ServiceIDs: ids})
}

func (s *HealthServiceInvoiceServiceSuite) storedInvoiceCount() int {
	return len(s.GetStores().InvoiceRepo.List(s.GetContext(), nil, nil))
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_ListPrices() {
	s.createService(newHealthService("hs_1", s.fixtures))

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)
	s.Require().Len(resp.Invoices, 1)

	inv := resp.Invoices[0]
	s.Equal(types.InvoiceStateDraft, inv.State)
	s.Equal(types.InvoiceTypeOut, inv.Type)
	s.Equal(s.fixtures.patient.ID, inv.PartyID)
	s.Equal("acc_receivable", inv.AccountID)
	s.Equal("term_30_days", inv.PaymentTermID)
	s.Equal("jrn_revenue", inv.JournalID)
	s.Equal("addr_invoice", inv.InvoiceAddressID)
	s.Equal("SRV-hs_1", inv.Reference)
	s.Equal("company_main", inv.CompanyID)
	assertDecimal(s.T(), "0", inv.InsuredAmount)
	assertDecimal(s.T(), "11000", inv.TotalAmount)

	s.Require().Len(inv.Lines, 2)
	s.Equal("hs_1_l1", inv.Lines[0].Origin)
	s.Equal(1, inv.Lines[0].Sequence)
	s.Equal("Consultation", inv.Lines[0].Description)
	s.Equal("acc_revenue", inv.Lines[0].AccountID)
	s.Equal([]string{"tax_exempt"}, inv.Lines[0].TaxIDs)
	assertDecimal(s.T(), "5000", inv.Lines[0].UnitPrice)

	s.Equal("hs_1_l3", inv.Lines[1].Origin)
	s.Equal(2, inv.Lines[1].Sequence)
	assertDecimal(s.T(), "3000", inv.Lines[1].UnitPrice)
	assertDecimal(s.T(), "2", inv.Lines[1].Quantity)

	svc, err := s.GetStores().HealthServiceRepo.Get(s.GetContext(), "hs_1")
	s.Require().NoError(err)
	s.True(svc.IsInvoiced())

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Len(stored.Lines, 2)
	s.Equal(1, s.GetDB().Commits)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_Rebate() {
	svc := newHealthService("hs_1", s.fixtures)
	svc.Rebate = lo.ToPtr(decimal.NewFromInt(10))
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	lines := resp.Invoices[0].Lines
	assertDecimal(s.T(), "4500", lines[0].UnitPrice)
	s.Equal("Consultation", lines[0].Description)
	assertDecimal(s.T(), "2700", lines[1].UnitPrice)
	assertDecimal(s.T(), "0", resp.Invoices[0].InsuredAmount)
}

func (s *HealthServiceInvoiceServiceSuite) seedInsurance(coverage int64, ceiling *decimal.Decimal, plan *insurance.Plan) {
	ctx := s.GetContext()
	if plan == nil {
		plan = &insurance.Plan{ID: "plan_basic", Name: "Basic"}
	}
	s.NoError(s.GetStores().InsuranceRepo.CreatePlan(ctx, plan))
	s.NoError(s.GetStores().InsuranceRepo.CreateInsurance(ctx, &insurance.Insurance{
		ID:       "ins_1",
		Number:   "CARD-001",
		PartyID:  s.fixtures.patient.ID,
		PlanID:   plan.ID,
		Coverage: decimal.NewFromInt(coverage),
		Ceiling:  ceiling,
	}))
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_InsuranceCoverage() {
	s.seedInsurance(80, nil, nil)
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	// the rebate only applies to uninsured services
	svc.Rebate = lo.ToPtr(decimal.NewFromInt(10))
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	inv := resp.Invoices[0]
	assertDecimal(s.T(), "1000", inv.Lines[0].UnitPrice)
	assertDecimal(s.T(), "4000", inv.Lines[0].InsuredAmount)
	s.Equal("Consultation (Insurance 80%)", inv.Lines[0].Description)
	assertDecimal(s.T(), "600", inv.Lines[1].UnitPrice)
	assertDecimal(s.T(), "4800", inv.Lines[1].InsuredAmount)
	assertDecimal(s.T(), "8800", inv.InsuredAmount)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_InsuranceCeiling() {
	s.seedInsurance(80, lo.ToPtr(decimal.NewFromInt(6000)), nil)
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	inv := resp.Invoices[0]
	// the consultation fits under the ceiling, the blood counts exhaust it
	assertDecimal(s.T(), "0", inv.Lines[0].UnitPrice)
	assertDecimal(s.T(), "5000", inv.Lines[0].InsuredAmount)
	assertDecimal(s.T(), "2500", inv.Lines[1].UnitPrice)
	assertDecimal(s.T(), "1000", inv.Lines[1].InsuredAmount)
	assertDecimal(s.T(), "6000", inv.InsuredAmount)
	assertDecimal(s.T(), "5000", inv.TotalAmount)
	assertDecimal(s.T(), "5000", inv.PatientAmount)
	assertDecimal(s.T(), "11000", inv.TotalWithInsurance)
	s.False(inv.FullCoverage)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_FullCoverageWithoutCeiling() {
	s.seedInsurance(100, nil, nil)
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	inv := resp.Invoices[0]
	s.True(inv.FullCoverage)
	assertDecimal(s.T(), "0.1", inv.Lines[0].UnitPrice)
	assertDecimal(s.T(), "0.1", inv.Lines[1].UnitPrice)
	assertDecimal(s.T(), "11000", inv.InsuredAmount)
	assertDecimal(s.T(), "0.3", inv.PatientAmount)
	// the placeholder prices are not part of the care cost
	assertDecimal(s.T(), "11000", inv.TotalWithInsurance)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.True(stored.FullCoverage)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_FullCoverageWithCeiling() {
	s.seedInsurance(100, lo.ToPtr(decimal.NewFromInt(20000)), nil)
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	inv := resp.Invoices[0]
	s.False(inv.FullCoverage)
	assertDecimal(s.T(), "11000", inv.InsuredAmount)
	assertDecimal(s.T(), "11000", inv.TotalWithInsurance.Sub(inv.PatientAmount))
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_CategoryPolicy() {
	s.seedInsurance(0, nil, &insurance.Plan{
		ID:   "plan_lab",
		Name: "Lab only",
		CategoryPolicies: []insurance.Policy{
			{ID: "pol_lab", PlanID: "plan_lab", CategoryID: lo.ToPtr("cat_lab"), Kind: types.DiscountKindFixed, Value: decimal.NewFromInt(500)},
		},
	})
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)

	inv := resp.Invoices[0]
	assertDecimal(s.T(), "5000", inv.Lines[0].UnitPrice)
	s.Equal("Consultation", inv.Lines[0].Description)
	assertDecimal(s.T(), "500", inv.Lines[1].UnitPrice)
	s.Equal("Blood count (Insurance plan)", inv.Lines[1].Description)
	assertDecimal(s.T(), "6000", inv.InsuredAmount)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_InvalidPlanIsRejected() {
	s.seedInsurance(0, nil, &insurance.Plan{
		ID: "plan_bad",
		ProductPolicies: []insurance.Policy{
			{ID: "pol_bad", PlanID: "plan_bad", Kind: types.DiscountKindPercentage, Value: decimal.NewFromInt(50)},
		},
	})
	svc := newHealthService("hs_1", s.fixtures)
	svc.InsuranceID = lo.ToPtr("ins_1")
	s.createService(svc)

	_, err := s.invoice("hs_1")
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.storedInvoiceCount())
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_PriceLists() {
	ctx := s.GetContext()
	s.NoError(s.GetStores().PriceListRepo.Create(ctx, &pricelist.PriceList{
		ID:   "pl_party",
		Name: "Employer rates",
		Lines: []pricelist.PriceListLine{
			{ID: "pll_1", PriceListID: "pl_party", Sequence: 1, ProductID: lo.ToPtr("prod_consult"), Formula: pricelist.FormulaFixed, Value: decimal.NewFromInt(4000)},
		},
	}))
	s.NoError(s.GetStores().PriceListRepo.Create(ctx, &pricelist.PriceList{
		ID:   "pl_tariff",
		Name: "Half price",
		Lines: []pricelist.PriceListLine{
			{ID: "pll_2", PriceListID: "pl_tariff", Sequence: 1, Formula: pricelist.FormulaFactor, Value: decimal.RequireFromString("0.5")},
		},
	}))

	employer := &party.Party{
		ID:              "party_employer",
		Name:            "Acme",
		SalePriceListID: lo.ToPtr("pl_party"),
		Addresses:       []party.Address{{ID: "addr_acme", PartyID: "party_employer", Type: types.AddressTypeInvoice}},
	}
	s.NoError(s.GetStores().PartyRepo.Create(ctx, employer))

	withPartyList := newHealthService("hs_1", s.fixtures)
	withPartyList.InvoiceToPartyID = lo.ToPtr(employer.ID)
	s.createService(withPartyList)

	withTariff := newHealthService("hs_2", s.fixtures)
	withTariff.InvoiceToPartyID = lo.ToPtr(employer.ID)
	withTariff.PriceListID = lo.ToPtr("pl_tariff")
	s.createService(withTariff)

	resp, err := s.invoice("hs_1", "hs_2")
	s.Require().NoError(err)
	s.Require().Len(resp.Invoices, 2)

	first := resp.Invoices[0]
	s.Equal(employer.ID, first.PartyID)
	s.Equal("addr_acme", first.InvoiceAddressID)
	assertDecimal(s.T(), "4000", first.Lines[0].UnitPrice)
	assertDecimal(s.T(), "3000", first.Lines[1].UnitPrice)

	second := resp.Invoices[1]
	assertDecimal(s.T(), "2500", second.Lines[0].UnitPrice)
	assertDecimal(s.T(), "1500", second.Lines[1].UnitPrice)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_PartyAccountsOverrideDefaults() {
	ctx := s.GetContext()
	s.NoError(s.GetStores().PartyRepo.Create(ctx, &party.Party{
		ID:                    "party_vip",
		Name:                  "VIP",
		AccountReceivableID:   lo.ToPtr("acc_vip"),
		CustomerPaymentTermID: lo.ToPtr("term_immediate"),
		Addresses:             []party.Address{{ID: "addr_vip", PartyID: "party_vip", Type: types.AddressTypeInvoice}},
	}))
	svc := newHealthService("hs_1", s.fixtures)
	svc.PatientPartyID = "party_vip"
	s.createService(svc)

	resp, err := s.invoice("hs_1")
	s.Require().NoError(err)
	s.Equal("acc_vip", resp.Invoices[0].AccountID)
	s.Equal("term_immediate", resp.Invoices[0].PaymentTermID)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_Preconditions() {
	tests := []struct {
		name     string
		setup    func(svc *healthservice.HealthService)
		sentinel error
	}{
		{
			name: "already invoiced",
			setup: func(svc *healthservice.HealthService) {
				svc.State = types.HealthServiceStateInvoiced
			},
			sentinel: healthservice.ErrServiceInvoiced,
		},
		{
			name: "no account receivable",
			setup: func(svc *healthservice.HealthService) {
				s.GetStores().AccountingRepo.SetConfiguration(accounting.Configuration{
					DefaultCustomerPaymentTermID: lo.ToPtr("term_30_days"),
				})
			},
			sentinel: healthservice.ErrNoAccountReceivable,
		},
		{
			name: "no payment term",
			setup: func(svc *healthservice.HealthService) {
				s.GetStores().AccountingRepo.SetConfiguration(accounting.Configuration{
					DefaultAccountReceivableID: lo.ToPtr("acc_receivable"),
				})
			},
			sentinel: healthservice.ErrNoPaymentTerm,
		},
		{
			name: "no revenue journal",
			setup: func(svc *healthservice.HealthService) {
				stores := s.GetStores()
				stores.AccountingRepo.Clear()
				stores.AccountingRepo.SetConfiguration(accounting.Configuration{
					DefaultAccountReceivableID:   lo.ToPtr("acc_receivable"),
					DefaultCustomerPaymentTermID: lo.ToPtr("term_30_days"),
				})
			},
			sentinel: healthservice.ErrNoRevenueJournal,
		},
		{
			name: "no invoice address",
			setup: func(svc *healthservice.HealthService) {
				s.NoError(s.GetStores().PartyRepo.Create(s.GetContext(), &party.Party{ID: "party_nowhere", Name: "Nowhere"}))
				svc.InvoiceToPartyID = lo.ToPtr("party_nowhere")
			},
			sentinel: healthservice.ErrNoInvoiceAddress,
		},
		{
			name: "product without revenue account",
			setup: func(svc *healthservice.HealthService) {
				s.fixtures.lab.AccountRevenueID = nil
			},
			sentinel: healthservice.ErrNoAccountRevenue,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.ClearStores()
			s.fixtures = seedBillingFixtures(&s.BaseServiceTestSuite)

			svc := newHealthService("hs_1", s.fixtures)
			tt.setup(svc)
			s.createService(svc)

			_, err := s.invoice("hs_1")
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)
			s.True(ierr.IsPrecondition(err))
			s.Equal(0, s.storedInvoiceCount())
		})
	}
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_BatchIsAtomic() {
	ctx := s.GetContext()
	s.NoError(s.GetStores().PartyRepo.Create(ctx, &party.Party{ID: "party_nowhere", Name: "Nowhere"}))

	s.createService(newHealthService("hs_ok", s.fixtures))
	broken := newHealthService("hs_broken", s.fixtures)
	broken.InvoiceToPartyID = lo.ToPtr("party_nowhere")
	s.createService(broken)

	_, err := s.invoice("hs_ok", "hs_broken")
	s.Require().Error(err)
	s.True(ierr.Is(err, healthservice.ErrNoInvoiceAddress))

	s.Equal(0, s.storedInvoiceCount())
	svc, err := s.GetStores().HealthServiceRepo.Get(ctx, "hs_ok")
	s.Require().NoError(err)
	s.False(svc.IsInvoiced())
	s.Equal(0, s.GetDB().Commits)
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_InvalidRequests() {
	s.createService(newHealthService("hs_1", s.fixtures))

	_, err := s.invoice()
	s.True(ierr.IsValidation(err))

	_, err = s.invoice("hs_1", "hs_1")
	s.True(ierr.IsValidation(err))

	_, err = s.invoice("hs_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_CannotInvoiceTwice() {
	s.createService(newHealthService("hs_1", s.fixtures))

	_, err := s.invoice("hs_1")
	s.Require().NoError(err)

	_, err = s.invoice("hs_1")
	s.True(ierr.Is(err, healthservice.ErrServiceInvoiced))
	s.Equal(1, s.storedInvoiceCount())
}

// concurrentInvoicer lets another request invoice a service between the
// precondition checks and the write of the current one
type concurrentInvoicer struct {
	*testutil.InMemoryHealthServiceStore
	done bool
}

func (r *concurrentInvoicer) Get(ctx context.Context, id string) (*healthservice.HealthService, error) {
	svc, err := r.InMemoryHealthServiceStore.Get(ctx, id)
	if err != nil || r.done {
		return svc, err
	}
	r.done = true
	if err := r.InMemoryHealthServiceStore.MarkInvoiced(ctx, []string{id}); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *HealthServiceInvoiceServiceSuite) TestCreateInvoices_ServiceInvoicedConcurrently() {
	s.createService(newHealthService("hs_1", s.fixtures))

	params := newTestParams(&s.BaseServiceTestSuite)
	params.HealthServiceRepo = &concurrentInvoicer{InMemoryHealthServiceStore: s.GetStores().HealthServiceRepo}

	_, err := NewHealthServiceInvoiceService(params).CreateInvoices(s.GetContext(),
		dto.CreateServiceInvoicesRequest{ServiceIDs: []string{"hs_1"}})
	s.Require().Error(err)
	s.True(ierr.Is(err, healthservice.ErrServiceInvoiced))
	s.True(ierr.IsPrecondition(err))
	s.Equal(1, s.GetDB().Rollbacks)
	s.Equal(0, s.GetDB().Commits)
}

func (s *HealthServiceInvoiceServiceSuite) TestMarkInvoiced_OnlyDraftServices() {
	ctx := s.GetContext()
	store := s.GetStores().HealthServiceRepo
	s.createService(newHealthService("hs_1", s.fixtures))
	s.createService(newHealthService("hs_2", s.fixtures))

	s.Require().NoError(store.MarkInvoiced(ctx, []string{"hs_1"}))

	err := store.MarkInvoiced(ctx, []string{"hs_2", "hs_1"})
	s.True(ierr.Is(err, healthservice.ErrServiceInvoiced))

	// nothing moves when one of the services was already invoiced
	svc, err := store.Get(ctx, "hs_2")
	s.Require().NoError(err)
	s.False(svc.IsInvoiced())
}
