package product

import (
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a billable item of the catalog: an act, a lab test, a drug
type Product struct {
	ID               string          `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	CategoryID       *string         `json:"category_id,omitempty" db:"category_id"`
	ListPrice        decimal.Decimal `json:"list_price" db:"list_price"`
	DefaultUOM       string          `json:"default_uom" db:"default_uom"`
	AccountRevenueID *string         `json:"account_revenue_id,omitempty" db:"account_revenue_id"`
	CustomerTaxIDs   []string        `json:"customer_tax_ids,omitempty" db:"-"`
	types.BaseModel
}
