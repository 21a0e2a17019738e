package service

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/domain/commission"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
)

// CommissionService books what agents earn on the invoices they brought in
type CommissionService interface {
	// CreateForInvoices books one commission per priced invoice line. Lines that
	// already carry a commission are skipped, so calling it twice is harmless.
	CreateForInvoices(ctx context.Context, invoices []*invoice.Invoice) ([]*commission.Commission, error)
	// GenerateForPaidInvoices runs CreateForInvoices over every paid invoice
	GenerateForPaidInvoices(ctx context.Context) (*dto.ListCommissionsResponse, error)
	ListAgentCommissions(ctx context.Context, agentID string) (*dto.ListCommissionsResponse, error)
}

type commissionService struct {
	ServiceParams
	priceListService PriceListService
}

func NewCommissionService(params ServiceParams) CommissionService {
	return &commissionService{
		ServiceParams:    params,
		priceListService: NewPriceListService(params),
	}
}

func (s *commissionService) CreateForInvoices(ctx context.Context, invoices []*invoice.Invoice) ([]*commission.Commission, error) {
	created := make([]*commission.Commission, 0)
	today := time.Now().UTC()

	for _, inv := range invoices {
		if inv.AgentID == nil || *inv.AgentID == "" {
			continue
		}

		agent, err := s.CommissionRepo.GetAgent(ctx, *inv.AgentID)
		if err != nil {
			return nil, err
		}
		if agent.PlanID == nil {
			continue
		}
		plan, err := s.CommissionRepo.GetPlan(ctx, *agent.PlanID)
		if err != nil {
			return nil, err
		}
		if err := plan.Method.Validate(); err != nil {
			return nil, err
		}

		p, err := s.PartyRepo.Get(ctx, inv.PartyID)
		if err != nil {
			return nil, err
		}

		lines := lo.Filter(inv.Lines, func(l *invoice.InvoiceLine, _ int) bool {
			return l.Type == types.InvoiceLineTypeLine
		})
		products, err := s.ProductRepo.GetMany(ctx, lo.Uniq(lo.Map(lines, func(l *invoice.InvoiceLine, _ int) string {
			return l.ProductID
		})))
		if err != nil {
			return nil, err
		}

		date := commissionDate(plan.Method, inv, today)
		for _, l := range lines {
			exists, err := s.CommissionRepo.ExistsForOrigin(ctx, l.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				if date != nil && plan.Method == types.CommissionMethodPayment {
					if err := s.CommissionRepo.SetDateIfUnset(ctx, l.ID, *date); err != nil {
						return nil, err
					}
				}
				continue
			}

			prod, ok := products[l.ProductID]
			if !ok {
				s.Logger.Warnw("skipping commission for unknown product", "invoice_line_id", l.ID, "product_id", l.ProductID)
				continue
			}

			amount, err := s.priceListService.ComputePrice(ctx, p.SalePriceListID, prod, l.Quantity)
			if err != nil {
				return nil, err
			}
			amount = types.RoundPrice(amount, s.Config.Billing.PriceDigits)
			if amount.IsZero() {
				continue
			}

			created = append(created, &commission.Commission{
				ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMISSION),
				Origin:    l.ID,
				AgentID:   agent.ID,
				ProductID: plan.CommissionProductID,
				Amount:    amount,
				Date:      date,
				BaseModel: types.GetDefaultBaseModel(ctx),
			})
		}
	}

	if err := s.CommissionRepo.CreateMany(ctx, created); err != nil {
		return nil, err
	}
	if len(created) > 0 {
		s.Logger.Infow("created commissions", "count", len(created))
	}
	return created, nil
}

// commissionDate is nil while a payment based commission waits for the invoice to be paid
func commissionDate(method types.CommissionMethod, inv *invoice.Invoice, today time.Time) *time.Time {
	switch method {
	case types.CommissionMethodPosting:
		if inv.InvoiceDate.IsZero() {
			return &today
		}
		return lo.ToPtr(inv.InvoiceDate)
	case types.CommissionMethodPayment:
		if inv.State != types.InvoiceStatePaid {
			return nil
		}
		if inv.ReconciledAt != nil {
			return lo.ToPtr(*inv.ReconciledAt)
		}
		return &today
	}
	return nil
}

func (s *commissionService) GenerateForPaidInvoices(ctx context.Context) (*dto.ListCommissionsResponse, error) {
	var created []*commission.Commission

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		invoices, err := s.InvoiceRepo.ListByState(txCtx, types.InvoiceStatePaid)
		if err != nil {
			return err
		}
		created, err = s.CreateForInvoices(txCtx, invoices)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewListCommissionsResponse(created), nil
}

func (s *commissionService) ListAgentCommissions(ctx context.Context, agentID string) (*dto.ListCommissionsResponse, error) {
	if _, err := s.CommissionRepo.GetAgent(ctx, agentID); err != nil {
		return nil, err
	}

	items, err := s.CommissionRepo.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return dto.NewListCommissionsResponse(items), nil
}
