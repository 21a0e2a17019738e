package service

import (
	"time"

	"github.com/healthbill/healthbill/internal/domain/accounting"
	"github.com/healthbill/healthbill/internal/domain/commission"
	"github.com/healthbill/healthbill/internal/domain/healthservice"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	"github.com/healthbill/healthbill/internal/domain/party"
	"github.com/healthbill/healthbill/internal/domain/pricelist"
	"github.com/healthbill/healthbill/internal/domain/product"
	"github.com/healthbill/healthbill/internal/testutil"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// billingFixtures seeds the records most invoicing tests share: accounting defaults,
// a revenue journal, a patient with an invoice address and two products
type billingFixtures struct {
	patient *party.Party
	consult *product.Product
	lab     *product.Product
}

func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		DB:                s.GetDB(),
		Cache:             s.GetCache(),
		PartyRepo:         stores.PartyRepo,
		AccountingRepo:    stores.AccountingRepo,
		ProductRepo:       stores.ProductRepo,
		PriceListRepo:     stores.PriceListRepo,
		InsuranceRepo:     stores.InsuranceRepo,
		HealthServiceRepo: stores.HealthServiceRepo,
		InvoiceRepo:       stores.InvoiceRepo,
		CommissionRepo:    stores.CommissionRepo,
	}
}

func seedBillingFixtures(s *testutil.BaseServiceTestSuite) *billingFixtures {
	ctx := s.GetContext()
	stores := s.GetStores()

	stores.AccountingRepo.SetConfiguration(accounting.Configuration{
		DefaultAccountReceivableID:   lo.ToPtr("acc_receivable"),
		DefaultCustomerPaymentTermID: lo.ToPtr("term_30_days"),
	})
	stores.AccountingRepo.AddJournal(&accounting.Journal{ID: "jrn_expense", Name: "Expenses", Type: accounting.JournalTypeExpense})
	stores.AccountingRepo.AddJournal(&accounting.Journal{ID: "jrn_revenue", Name: "Revenue", Type: accounting.JournalTypeRevenue})

	f := &billingFixtures{
		patient: &party.Party{
			ID:   "party_patient",
			Name: "Awa Diallo",
			Addresses: []party.Address{
				{ID: "addr_home", PartyID: "party_patient", Type: types.AddressTypeDelivery, Sequence: 1},
				{ID: "addr_invoice", PartyID: "party_patient", Type: types.AddressTypeInvoice, Sequence: 2},
			},
			BaseModel: types.GetDefaultBaseModel(ctx),
		},
		consult: &product.Product{
			ID:               "prod_consult",
			Name:             "Consultation",
			CategoryID:       lo.ToPtr("cat_acts"),
			ListPrice:        decimal.NewFromInt(5000),
			DefaultUOM:       "unit",
			AccountRevenueID: lo.ToPtr("acc_revenue"),
			CustomerTaxIDs:   []string{"tax_exempt"},
			BaseModel:        types.GetDefaultBaseModel(ctx),
		},
		lab: &product.Product{
			ID:               "prod_lab",
			Name:             "Blood count",
			CategoryID:       lo.ToPtr("cat_lab"),
			ListPrice:        decimal.NewFromInt(3000),
			DefaultUOM:       "unit",
			AccountRevenueID: lo.ToPtr("acc_revenue"),
			BaseModel:        types.GetDefaultBaseModel(ctx),
		},
	}

	s.NoError(stores.PartyRepo.Create(ctx, f.patient))
	s.NoError(stores.ProductRepo.Create(ctx, f.consult))
	s.NoError(stores.ProductRepo.Create(ctx, f.lab))
	return f
}

// newHealthService returns a draft service with an invoiced consultation, two invoiced
// blood counts and one line kept off the invoice
func newHealthService(id string, f *billingFixtures) *healthservice.HealthService {
	return &healthservice.HealthService{
		ID:             id,
		Name:           "SRV-" + id,
		Description:    "Outpatient visit",
		PatientPartyID: f.patient.ID,
		CompanyID:      "company_main",
		RequestorID:    "doctor_1",
		State:          types.HealthServiceStateDraft,
		Lines: []healthservice.ServiceLine{
			{ID: id + "_l1", ServiceID: id, Sequence: 1, ProductID: f.consult.ID, Description: "Consultation", Quantity: decimal.NewFromInt(1), ToInvoice: true},
			{ID: id + "_l2", ServiceID: id, Sequence: 2, ProductID: f.lab.ID, Description: "Follow-up", Quantity: decimal.NewFromInt(1), ToInvoice: false},
			{ID: id + "_l3", ServiceID: id, Sequence: 3, ProductID: f.lab.ID, Description: "Blood count", Quantity: decimal.NewFromInt(2), ToInvoice: true},
		},
	}
}

func assertDecimal(t assert.TestingT, expected string, actual decimal.Decimal) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		"expected %s, got %s", expected, actual.String())
}

// seedInvoice stores an invoice of a consultation at 1000 and two blood counts at 600
func seedInvoice(s *testutil.BaseServiceTestSuite, id string, state types.InvoiceState, agentID *string) *invoice.Invoice {
	ctx := s.GetContext()
	inv := &invoice.Invoice{
		ID:               id,
		Type:             types.InvoiceTypeOut,
		State:            state,
		PartyID:          "party_patient",
		InvoiceDate:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CompanyID:        "company_main",
		AgentID:          agentID,
		AccountID:        "acc_receivable",
		JournalID:        "jrn_revenue",
		InvoiceAddressID: "addr_invoice",
		PaymentTermID:    "term_30_days",
		Reference:        "SRV-" + id,
		InsuredAmount:    decimal.NewFromInt(4000),
		AmountPaid:       decimal.Zero,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	inv.Lines = []*invoice.InvoiceLine{
		{ID: id + "_line_1", InvoiceID: id, Type: types.InvoiceLineTypeLine, Origin: "srv_line_1", ProductID: "prod_consult", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000), Sequence: 1},
		{ID: id + "_title", InvoiceID: id, Type: types.InvoiceLineTypeTitle, Description: "Lab", Sequence: 2},
		{ID: id + "_line_2", InvoiceID: id, Type: types.InvoiceLineTypeLine, Origin: "srv_line_3", ProductID: "prod_lab", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(600), Sequence: 3},
	}
	_, err := s.GetStores().InvoiceRepo.CreateMany(ctx, []*invoice.Invoice{inv})
	s.Require().NoError(err)
	return inv
}

// seedAgent stores an agent on a commission plan and gives the patient a price list
// worth 500 per consultation and 300 per blood count
func seedAgent(s *testutil.BaseServiceTestSuite, method types.CommissionMethod) *commission.Agent {
	ctx := s.GetContext()
	stores := s.GetStores()

	s.Require().NoError(stores.PriceListRepo.Create(ctx, &pricelist.PriceList{
		ID:   "pl_commission",
		Name: "Referral fees",
		Lines: []pricelist.PriceListLine{
			{ID: "pll_consult", PriceListID: "pl_commission", Sequence: 1, ProductID: lo.ToPtr("prod_consult"), Formula: pricelist.FormulaFixed, Value: decimal.NewFromInt(500)},
			{ID: "pll_lab", PriceListID: "pl_commission", Sequence: 2, CategoryID: lo.ToPtr("cat_lab"), Formula: pricelist.FormulaFactor, Value: decimal.RequireFromString("0.1")},
		},
	}))
	patient, err := stores.PartyRepo.Get(ctx, "party_patient")
	s.Require().NoError(err)
	patient.SalePriceListID = lo.ToPtr("pl_commission")
	s.Require().NoError(stores.PartyRepo.Update(ctx, patient.ID, patient))

	plan := &commission.Plan{
		ID:                  "cplan_" + string(method),
		Name:                "Referral " + string(method),
		CommissionProductID: "prod_commission",
		Method:              method,
	}
	s.Require().NoError(stores.CommissionRepo.CreatePlan(ctx, plan))

	agent := &commission.Agent{ID: "agent_1", PartyID: "party_doctor", PlanID: lo.ToPtr(plan.ID), Currency: "XOF"}
	s.Require().NoError(stores.CommissionRepo.CreateAgent(ctx, agent))
	return agent
}
