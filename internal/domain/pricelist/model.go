package pricelist

import (
	"sort"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Formula is how a matching price list line derives the unit price
type Formula string

const (
	// FormulaListPrice keeps the catalog list price
	FormulaListPrice Formula = "list_price"
	// FormulaFixed charges Value whatever the list price
	FormulaFixed Formula = "fixed"
	// FormulaFactor multiplies the list price by Value
	FormulaFactor Formula = "factor"
	// FormulaDiscount takes Value percent off the list price
	FormulaDiscount Formula = "discount"
)

// PriceList is a party or institution specific pricing rule set overriding catalog prices
type PriceList struct {
	ID    string          `json:"id" db:"id"`
	Name  string          `json:"name" db:"name"`
	Lines []PriceListLine `json:"lines" db:"-"`
	types.BaseModel
}

// PriceListLine matches on product, category, unit and minimum quantity. Empty criteria match anything.
type PriceListLine struct {
	ID          string          `json:"id" db:"id"`
	PriceListID string          `json:"price_list_id" db:"price_list_id"`
	Sequence    int             `json:"sequence" db:"sequence"`
	ProductID   *string         `json:"product_id,omitempty" db:"product_id"`
	CategoryID  *string         `json:"category_id,omitempty" db:"category_id"`
	Unit        *string         `json:"unit,omitempty" db:"unit"`
	MinQuantity decimal.Decimal `json:"min_quantity" db:"min_quantity"`
	Formula     Formula         `json:"formula" db:"formula"`
	Value       decimal.Decimal `json:"value" db:"value"`
}

// Product is the part of a catalog product the price list needs to match a line
type Product struct {
	ID         string
	CategoryID *string
}

func (l PriceListLine) matches(p Product, qty decimal.Decimal, unit string) bool {
	if l.ProductID != nil && *l.ProductID != p.ID {
		return false
	}
	if l.CategoryID != nil && (p.CategoryID == nil || *l.CategoryID != *p.CategoryID) {
		return false
	}
	if l.Unit != nil && *l.Unit != unit {
		return false
	}
	return qty.GreaterThanOrEqual(l.MinQuantity)
}

func (l PriceListLine) apply(listPrice decimal.Decimal) decimal.Decimal {
	switch l.Formula {
	case FormulaFixed:
		return l.Value
	case FormulaFactor:
		return listPrice.Mul(l.Value)
	case FormulaDiscount:
		return types.ApplyPercentOff(listPrice, l.Value)
	default:
		return listPrice
	}
}

// Compute returns the negotiated unit price for quantity units of the product.
// The first matching line in sequence order wins; without a match the list price applies.
func (pl *PriceList) Compute(p Product, listPrice, qty decimal.Decimal, unit string) decimal.Decimal {
	lines := make([]PriceListLine, len(pl.Lines))
	copy(lines, pl.Lines)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Sequence < lines[j].Sequence
	})

	for _, l := range lines {
		if !l.matches(p, qty, unit) {
			continue
		}
		price := l.apply(listPrice)
		if price.IsNegative() {
			return decimal.Zero
		}
		return price
	}
	return listPrice
}

// Validate checks the formulas of every line
func (pl *PriceList) Validate() error {
	allowed := []Formula{FormulaListPrice, FormulaFixed, FormulaFactor, FormulaDiscount}
	for _, l := range pl.Lines {
		if !lo.Contains(allowed, l.Formula) {
			return ierr.NewError("invalid price list formula").
				WithHintf("Price list line %d has an unknown formula", l.Sequence).
				WithReportableDetails(map[string]any{
					"price_list_id": pl.ID,
					"formula":       l.Formula,
					"allowed":       allowed,
				}).
				Mark(ierr.ErrValidation)
		}
		if l.Formula == FormulaDiscount && !types.IsValidPercent(l.Value) {
			return ierr.NewError("discount percentage out of range").
				WithHintf("Price list line %d discount must be between 0 and 100", l.Sequence).
				Mark(ierr.ErrValidation)
		}
		if l.MinQuantity.IsNegative() {
			return ierr.NewError("negative minimum quantity").
				WithHintf("Price list line %d minimum quantity cannot be negative", l.Sequence).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
