package healthservice

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// HealthService is a billable clinical encounter or order made of service lines
type HealthService struct {
	ID               string                   `json:"id" db:"id"`
	Name             string                   `json:"name" db:"name"`
	Description      string                   `json:"description" db:"description"`
	PatientPartyID   string                   `json:"patient_party_id" db:"patient_party_id"`
	InvoiceToPartyID *string                  `json:"invoice_to_party_id,omitempty" db:"invoice_to_party_id"`
	CompanyID        string                   `json:"company_id" db:"company_id"`
	AgentID          *string                  `json:"agent_id,omitempty" db:"agent_id"`
	RequestorID      string                   `json:"requestor_id" db:"requestor_id"`
	InsuranceID      *string                  `json:"insurance_id,omitempty" db:"insurance_id"`
	Rebate           *decimal.Decimal         `json:"rebate,omitempty" db:"rebate"`
	PriceListID      *string                  `json:"price_list_id,omitempty" db:"price_list_id"`
	State            types.HealthServiceState `json:"state" db:"state"`
	Lines            []ServiceLine            `json:"lines" db:"-"`
	types.BaseModel
}

// ServiceLine is one product delivered during the health service
type ServiceLine struct {
	ID          string          `json:"id" db:"id"`
	ServiceID   string          `json:"service_id" db:"service_id"`
	Sequence    int             `json:"sequence" db:"sequence"`
	ProductID   string          `json:"product_id" db:"product_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	ToInvoice   bool            `json:"to_invoice" db:"to_invoice"`
}

// BillingPartyID is who receives the invoice: the invoice-to party when set, the patient otherwise
func (s *HealthService) BillingPartyID() string {
	if s.InvoiceToPartyID != nil && *s.InvoiceToPartyID != "" {
		return *s.InvoiceToPartyID
	}
	return s.PatientPartyID
}

func (s *HealthService) IsInvoiced() bool {
	return s.State == types.HealthServiceStateInvoiced
}

// InvoicedLines returns the lines flagged to be invoiced, in order
func (s *HealthService) InvoicedLines() []ServiceLine {
	lines := make([]ServiceLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		if l.ToInvoice {
			lines = append(lines, l)
		}
	}
	return lines
}

func (s *HealthService) Validate() error {
	if s.Rebate != nil && !types.IsValidPercent(*s.Rebate) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Rebate must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"service_id": s.ID,
				"rebate":     s.Rebate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	for _, l := range s.Lines {
		if l.ProductID == "" {
			return ierr.NewError("service line without product").
				WithHintf("Line %d of %s has no product", l.Sequence, s.Name).
				Mark(ierr.ErrValidation)
		}
		if !l.Quantity.IsPositive() {
			return ierr.NewError("non positive quantity").
				WithHintf("Line %d of %s must have a positive quantity", l.Sequence, s.Name).
				WithReportableDetails(map[string]any{
					"service_id": s.ID,
					"line_id":    l.ID,
					"quantity":   l.Quantity.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
