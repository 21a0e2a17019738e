package invoice

import (
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one priced line of an invoice
type InvoiceLine struct {
	ID        string                `json:"id" db:"id"`
	InvoiceID string                `json:"invoice_id" db:"invoice_id"`
	Type      types.InvoiceLineType `json:"type" db:"type"`
	// Origin is the service line the invoice line was generated from
	Origin      string          `json:"origin" db:"origin"`
	ProductID   string          `json:"product_id" db:"product_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	AccountID   string          `json:"account_id" db:"account_id"`
	Unit        string          `json:"unit" db:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Sequence    int             `json:"sequence" db:"sequence"`
	TaxIDs      []string        `json:"tax_ids,omitempty" db:"-"`
	// InsuredAmount is the insurer's share of this line
	InsuredAmount decimal.Decimal `json:"insured_amount" db:"insured_amount"`
}

// Amount is quantity times unit price
func (l *InvoiceLine) Amount() decimal.Decimal {
	if l.Type != types.InvoiceLineTypeLine {
		return decimal.Zero
	}
	return l.Quantity.Mul(l.UnitPrice)
}

func (l *InvoiceLine) Validate() error {
	if l.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must be non negative")
	}
	if l.Quantity.IsNegative() {
		return NewValidationError("quantity", "must be non negative")
	}
	return nil
}
