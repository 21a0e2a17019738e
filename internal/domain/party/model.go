package party

import (
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
)

// Party is a person or organisation that can be invoiced: a patient, an employer or an insurer
type Party struct {
	ID                    string    `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	AccountReceivableID   *string   `json:"account_receivable_id,omitempty" db:"account_receivable_id"`
	CustomerPaymentTermID *string   `json:"customer_payment_term_id,omitempty" db:"customer_payment_term_id"`
	SalePriceListID       *string   `json:"sale_price_list_id,omitempty" db:"sale_price_list_id"`
	IsInsuranceCompany    bool      `json:"is_insurance_company" db:"is_insurance_company"`
	IsInstitution         bool      `json:"is_institution" db:"is_institution"`
	Addresses             []Address `json:"addresses,omitempty" db:"-"`
	types.BaseModel
}

// Address of a party
type Address struct {
	ID       string            `json:"id" db:"id"`
	PartyID  string            `json:"party_id" db:"party_id"`
	Type     types.AddressType `json:"type" db:"type"`
	Street   string            `json:"street" db:"street"`
	City     string            `json:"city" db:"city"`
	Sequence int               `json:"sequence" db:"sequence"`
}

// InvoiceAddress returns the first invoice address of the party, if any
func (p *Party) InvoiceAddress() (*Address, bool) {
	addr, ok := lo.Find(p.Addresses, func(a Address) bool {
		return a.Type == types.AddressTypeInvoice
	})
	if !ok {
		return nil, false
	}
	return &addr, true
}
