package service

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/billing"
	"github.com/healthbill/healthbill/internal/domain/accounting"
	"github.com/healthbill/healthbill/internal/domain/healthservice"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	"github.com/healthbill/healthbill/internal/domain/party"
	"github.com/healthbill/healthbill/internal/domain/product"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// HealthServiceInvoiceService turns health services into customer invoices
type HealthServiceInvoiceService interface {
	// CreateInvoices invoices every service of the request or none of them
	CreateInvoices(ctx context.Context, req dto.CreateServiceInvoicesRequest) (*dto.CreateServiceInvoicesResponse, error)
}

type healthServiceInvoiceService struct {
	ServiceParams
	priceListService PriceListService
	insuranceService InsuranceService
	builder          *billing.InvoiceDraftBuilder
}

func NewHealthServiceInvoiceService(params ServiceParams) HealthServiceInvoiceService {
	return &healthServiceInvoiceService{
		ServiceParams:    params,
		priceListService: NewPriceListService(params),
		insuranceService: NewInsuranceService(params),
		builder:          newDraftBuilder(params),
	}
}

func newDraftBuilder(params ServiceParams) *billing.InvoiceDraftBuilder {
	cfg := params.Config.Billing
	return billing.NewInvoiceDraftBuilder(
		billing.WithPriceDigits(cfg.PriceDigits),
		billing.WithAmountDigits(cfg.AmountDigits),
		billing.WithPlaceholderPrice(cfg.Placeholder()),
		billing.WithLogger(params.Logger),
	)
}

// serviceBilling is everything needed to invoice one service once its preconditions hold
type serviceBilling struct {
	service       *healthservice.HealthService
	party         *party.Party
	accountID     string
	priceListID   *string
	journal       *accounting.Journal
	address       *party.Address
	paymentTermID string
	products      map[string]*product.Product
}

func (s *healthServiceInvoiceService) CreateInvoices(ctx context.Context, req dto.CreateServiceInvoicesRequest) (*dto.CreateServiceInvoicesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acctCfg, err := s.AccountingRepo.GetConfiguration(ctx)
	if err != nil {
		return nil, err
	}

	// every precondition is checked before anything is written
	prepared := make([]*serviceBilling, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		sb, err := s.prepare(ctx, id, acctCfg)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, sb)
	}

	invoices := make([]*invoice.Invoice, 0, len(prepared))
	for _, sb := range prepared {
		inv, err := s.draft(ctx, sb)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		lineIDs, err := s.InvoiceRepo.CreateMany(txCtx, invoices)
		if err != nil {
			return err
		}
		for _, inv := range invoices {
			s.Logger.Infow("created invoice from health service",
				"invoice_id", inv.ID,
				"reference", inv.Reference,
				"lines", len(lineIDs[inv.ID]),
				"insured_amount", inv.InsuredAmount.String(),
			)
		}
		return s.HealthServiceRepo.MarkInvoiced(txCtx, req.ServiceIDs)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateServiceInvoicesResponse{
		Invoices: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return dto.NewInvoiceResponse(inv)
		}),
	}, nil
}

// prepare loads a service and checks its preconditions in a fixed order so the
// first missing setting is the one reported
func (s *healthServiceInvoiceService) prepare(ctx context.Context, serviceID string, acctCfg *accounting.Configuration) (*serviceBilling, error) {
	svc, err := s.HealthServiceRepo.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.IsInvoiced() {
		return nil, healthservice.NewPreconditionError(healthservice.ErrServiceInvoiced,
			"Health service "+svc.Name+" is already invoiced",
			map[string]any{"service_id": svc.ID})
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PartyRepo.Get(ctx, svc.BillingPartyID())
	if err != nil {
		return nil, err
	}

	accountID, ok := firstSet(p.AccountReceivableID, acctCfg.DefaultAccountReceivableID)
	if !ok {
		return nil, healthservice.NewPreconditionError(healthservice.ErrNoAccountReceivable,
			"You need to define an account receivable for "+p.Name+" or a default one",
			map[string]any{"party_id": p.ID, "service_id": svc.ID})
	}

	priceListID := svc.PriceListID
	if priceListID == nil {
		priceListID = p.SalePriceListID
	}

	journal, err := s.AccountingRepo.FindJournalByType(ctx, accounting.JournalTypeRevenue)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, healthservice.NewPreconditionError(healthservice.ErrNoRevenueJournal,
				"You need to define a revenue journal", nil)
		}
		return nil, err
	}

	address, ok := p.InvoiceAddress()
	if !ok {
		return nil, healthservice.NewPreconditionError(healthservice.ErrNoInvoiceAddress,
			"You need to define an invoice address for "+p.Name,
			map[string]any{"party_id": p.ID, "service_id": svc.ID})
	}

	paymentTermID, ok := firstSet(p.CustomerPaymentTermID, acctCfg.DefaultCustomerPaymentTermID)
	if !ok {
		return nil, healthservice.NewPreconditionError(healthservice.ErrNoPaymentTerm,
			"You need to define a customer payment term for "+p.Name+" or a default one",
			map[string]any{"party_id": p.ID, "service_id": svc.ID})
	}

	productIDs := lo.Uniq(lo.Map(svc.Lines, func(l healthservice.ServiceLine, _ int) string {
		return l.ProductID
	}))
	products, err := s.ProductRepo.GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, l := range svc.InvoicedLines() {
		prod, ok := products[l.ProductID]
		if !ok {
			return nil, ierr.NewError("product not found").
				WithHintf("Product %s of %s not found", l.ProductID, svc.Name).
				WithReportableDetails(map[string]any{
					"service_id": svc.ID,
					"product_id": l.ProductID,
				}).
				Mark(ierr.ErrNotFound)
		}
		if prod.AccountRevenueID == nil || *prod.AccountRevenueID == "" {
			return nil, healthservice.NewPreconditionError(healthservice.ErrNoAccountRevenue,
				"You need to define a revenue account for "+prod.Name,
				map[string]any{"product_id": prod.ID, "service_id": svc.ID})
		}
	}

	return &serviceBilling{
		service:       svc,
		party:         p,
		accountID:     accountID,
		priceListID:   priceListID,
		journal:       journal,
		address:       address,
		paymentTermID: paymentTermID,
		products:      products,
	}, nil
}

// draft prices the service lines and assembles the draft invoice
func (s *healthServiceInvoiceService) draft(ctx context.Context, sb *serviceBilling) (*invoice.Invoice, error) {
	svc := sb.service

	lookup, err := s.priceListService.Lookup(ctx, sb.priceListID, sb.products)
	if err != nil {
		return nil, err
	}
	plan, err := s.insuranceService.BillingPlan(ctx, svc.InsuranceID, sb.products)
	if err != nil {
		return nil, err
	}

	in := billing.DraftInput{
		Lines:       make([]billing.BillableLine, 0, len(svc.Lines)),
		Plan:        plan,
		PriceLookup: lookup,
	}
	if plan == nil {
		in.Rebate = svc.Rebate
	}
	for _, l := range svc.Lines {
		bl := billing.BillableLine{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			ToInvoice:   l.ToInvoice,
		}
		if prod, ok := sb.products[l.ProductID]; ok {
			bl.ProductName = prod.Name
			bl.ListPrice = prod.ListPrice
			bl.Unit = prod.DefaultUOM
			bl.AccountID = lo.FromPtr(prod.AccountRevenueID)
			bl.TaxIDs = prod.CustomerTaxIDs
			if bl.Description == "" {
				bl.Description = prod.Name
			}
		}
		in.Lines = append(in.Lines, bl)
	}

	result := s.builder.Build(in)

	now := time.Now().UTC()
	inv := &invoice.Invoice{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Type:             types.InvoiceTypeOut,
		State:            types.InvoiceStateDraft,
		PartyID:          sb.party.ID,
		Description:      svc.Description,
		InvoiceDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CompanyID:        svc.CompanyID,
		AgentID:          svc.AgentID,
		AccountID:        sb.accountID,
		JournalID:        sb.journal.ID,
		InvoiceAddressID: sb.address.ID,
		PaymentTermID:    sb.paymentTermID,
		PriceListID:      sb.priceListID,
		Reference:        svc.Name,
		InsuredAmount:    result.InsuredAmount,
		FullCoverage:     plan != nil && plan.FullCoverage,
		AmountPaid:       decimal.Zero,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	inv.Lines = lo.Map(result.Lines, func(l billing.LineResult, _ int) *invoice.InvoiceLine {
		return &invoice.InvoiceLine{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
			InvoiceID:     inv.ID,
			Type:          types.InvoiceLineTypeLine,
			Origin:        l.SourceLineID,
			ProductID:     l.ProductID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			AccountID:     l.AccountID,
			Unit:          l.Unit,
			UnitPrice:     l.UnitPrice,
			Sequence:      l.Sequence,
			TaxIDs:        l.TaxIDs,
			InsuredAmount: l.InsuredAmount,
		}
	})

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// firstSet returns the first non empty id
func firstSet(ids ...*string) (string, bool) {
	id, ok := lo.Find(ids, func(id *string) bool {
		return id != nil && *id != ""
	})
	if !ok {
		return "", false
	}
	return *id, true
}
