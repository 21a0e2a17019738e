package invoice

import (
	"time"

	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a customer invoice raised from a health service
type Invoice struct {
	ID               string             `json:"id" db:"id"`
	Type             types.InvoiceType  `json:"type" db:"type"`
	State            types.InvoiceState `json:"state" db:"state"`
	PartyID          string             `json:"party_id" db:"party_id"`
	Description      string             `json:"description" db:"description"`
	InvoiceDate      time.Time          `json:"invoice_date" db:"invoice_date"`
	CompanyID        string             `json:"company_id" db:"company_id"`
	AgentID          *string            `json:"agent_id,omitempty" db:"agent_id"`
	AccountID        string             `json:"account_id" db:"account_id"`
	JournalID        string             `json:"journal_id" db:"journal_id"`
	InvoiceAddressID string             `json:"invoice_address_id" db:"invoice_address_id"`
	PaymentTermID    string             `json:"payment_term_id" db:"payment_term_id"`
	PriceListID      *string            `json:"price_list_id,omitempty" db:"price_list_id"`
	// Reference is the name of the originating health service
	Reference string `json:"reference" db:"reference"`
	// InsuredAmount is the part of the invoice the insurer pays
	InsuredAmount decimal.Decimal `json:"insured_amount" db:"insured_amount"`
	// FullCoverage is set when the insurer pays every line in full with no ceiling
	FullCoverage bool `json:"full_coverage" db:"full_coverage"`
	AmountPaid    decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	ReconciledAt  *time.Time      `json:"reconciled_at,omitempty" db:"reconciled_at"`
	Lines         []*InvoiceLine  `json:"lines,omitempty" db:"-"`
	types.BaseModel
}

// TotalAmount is the untaxed amount billed to the party
func (i *Invoice) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Amount())
	}
	return total
}

// PatientAmount is the share billed to the patient, which is what the invoice lines carry
func (i *Invoice) PatientAmount() decimal.Decimal {
	return i.TotalAmount()
}

// TotalWithInsurance is the full cost of the care: the patient amount plus the insured
// amount. Under full coverage the lines only carry placeholder prices, so the
// insured amount alone is the total.
func (i *Invoice) TotalWithInsurance() decimal.Decimal {
	if i.FullCoverage {
		return i.InsuredAmount
	}
	return i.PatientAmount().Add(i.InsuredAmount)
}

// AmountToPay is what remains due on the invoice
func (i *Invoice) AmountToPay() decimal.Decimal {
	remaining := i.TotalAmount().Sub(i.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (i *Invoice) Validate() error {
	if err := i.State.Validate(); err != nil {
		return err
	}
	if i.InsuredAmount.IsNegative() {
		return NewValidationError("insured_amount", "must be non negative")
	}
	if i.AmountPaid.IsNegative() {
		return NewValidationError("amount_paid", "must be non negative")
	}
	for _, l := range i.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
