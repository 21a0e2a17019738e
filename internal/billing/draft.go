package billing

import (
	"fmt"

	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// BillableLine is one service line offered for invoicing
type BillableLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Unit        string          `json:"unit"`
	ToInvoice   bool            `json:"to_invoice"`
	AccountID   string          `json:"account_id"`
	TaxIDs      []string        `json:"tax_ids,omitempty"`
}

// Discount is the insurer's policy for one product
type Discount struct {
	Kind  types.DiscountKind `json:"kind"`
	Value decimal.Decimal    `json:"value"`
}

// Plan is the insurance snapshot a draft is computed against
type Plan struct {
	ID string
	// Ceiling caps what the insurer pays on the whole invoice; nil means uncapped
	Ceiling *decimal.Decimal
	// PolicyFor returns the discount for a product, nil when the product is not covered
	PolicyFor func(productID string) *Discount
	// FullCoverage is set when the card pays 100% with no ceiling
	FullCoverage bool
}

// PriceLookup returns the negotiated unit price of a product for the billed party
type PriceLookup func(productID string, listPrice, quantity decimal.Decimal, unit string) decimal.Decimal

// DraftInput is everything the builder needs for one invoice
type DraftInput struct {
	Lines []BillableLine
	Plan  *Plan
	// Rebate is a percentage taken off every line when there is no plan
	Rebate      *decimal.Decimal
	PriceLookup PriceLookup
}

// LineResult is one invoice line ready to be persisted
type LineResult struct {
	SourceLineID      string          `json:"source_line_id"`
	ProductID         string          `json:"product_id"`
	Description       string          `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
	InsuredAmount     decimal.Decimal `json:"insured_amount"`
	CeilingApplied    decimal.Decimal `json:"ceiling_applied"`
	AccountID         string          `json:"account_id"`
	Unit              string          `json:"unit"`
	Sequence          int             `json:"sequence"`
	TaxIDs            []string        `json:"tax_ids,omitempty"`
}

// DraftResult is the computed invoice draft
type DraftResult struct {
	Lines           []LineResult    `json:"lines"`
	InsuredAmount   decimal.Decimal `json:"insured_amount"`
	CeilingConsumed decimal.Decimal `json:"ceiling_consumed"`
	// CeilingRemaining is nil when the plan has no ceiling
	CeilingRemaining *decimal.Decimal `json:"ceiling_remaining,omitempty"`
}

// InvoiceDraftBuilder prices health service lines against an insurance plan or a rebate
type InvoiceDraftBuilder struct {
	priceDigits  int32
	amountDigits int32
	placeholder  decimal.Decimal
	logger       *logger.Logger
}

// Option configures an InvoiceDraftBuilder
type Option func(*InvoiceDraftBuilder)

// WithPriceDigits sets the precision of unit prices
func WithPriceDigits(digits int32) Option {
	return func(b *InvoiceDraftBuilder) {
		b.priceDigits = digits
	}
}

// WithAmountDigits sets the precision of the invoice insured amount
func WithAmountDigits(digits int32) Option {
	return func(b *InvoiceDraftBuilder) {
		b.amountDigits = digits
	}
}

// WithPlaceholderPrice sets the unit price charged on fully covered lines
func WithPlaceholderPrice(price decimal.Decimal) Option {
	return func(b *InvoiceDraftBuilder) {
		b.placeholder = price
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(b *InvoiceDraftBuilder) {
		b.logger = log
	}
}

func NewInvoiceDraftBuilder(opts ...Option) *InvoiceDraftBuilder {
	b := &InvoiceDraftBuilder{
		priceDigits:  types.DefaultPriceDigits,
		amountDigits: types.DefaultAmountDigits,
		placeholder:  types.DefaultPlaceholderUnitPrice,
		logger:       logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build computes the draft. Lines are priced in order since each one consumes
// the ceiling left by the previous ones.
func (b *InvoiceDraftBuilder) Build(in DraftInput) *DraftResult {
	result := &DraftResult{
		Lines:           make([]LineResult, 0, len(in.Lines)),
		InsuredAmount:   decimal.Zero,
		CeilingConsumed: decimal.Zero,
	}

	var balance decimal.Decimal
	hasCeiling := in.Plan != nil && in.Plan.Ceiling != nil
	if hasCeiling {
		balance = *in.Plan.Ceiling
	}

	insured := decimal.Zero
	seq := 0
	for _, line := range in.Lines {
		if !line.ToInvoice {
			continue
		}
		seq++

		original := line.ListPrice
		if in.PriceLookup != nil {
			original = in.PriceLookup(line.ProductID, line.ListPrice, line.Quantity, line.Unit)
		}

		res := LineResult{
			SourceLineID:      line.ID,
			ProductID:         line.ProductID,
			Description:       line.Description,
			Quantity:          line.Quantity,
			UnitPrice:         original,
			OriginalUnitPrice: original,
			InsuredAmount:     decimal.Zero,
			CeilingApplied:    decimal.Zero,
			AccountID:         line.AccountID,
			Unit:              line.Unit,
			Sequence:          seq,
			TaxIDs:            line.TaxIDs,
		}

		var marker string
		if in.Plan == nil {
			b.applyRebate(&res, in.Rebate)
		} else {
			var disc *Discount
			disc, marker = b.applyPolicy(&res, in.Plan)
			if hasCeiling {
				balance, marker = b.applyCeiling(&res, disc, balance)
			}
		}

		res.UnitPrice = b.roundPrice(res.UnitPrice)
		if marker != "" {
			res.Description = annotate(res.Description, marker)
		}
		insured = insured.Add(res.InsuredAmount)

		b.logger.Debugw("priced invoice line",
			"line_id", line.ID,
			"product_id", line.ProductID,
			"original_unit_price", original.String(),
			"unit_price", res.UnitPrice.String(),
			"insured_amount", res.InsuredAmount.String(),
		)
		result.Lines = append(result.Lines, res)
	}

	result.InsuredAmount = types.RoundAmount(insured, b.amountDigits)
	if hasCeiling {
		ceiling := *in.Plan.Ceiling
		if result.InsuredAmount.GreaterThan(ceiling) {
			result.InsuredAmount = ceiling
		}
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		result.CeilingConsumed = ceiling.Sub(balance)
		result.CeilingRemaining = &balance
	}
	return result
}

// applyRebate prices the line with the service rebate. Rebated lines carry no marker.
func (b *InvoiceDraftBuilder) applyRebate(res *LineResult, rebate *decimal.Decimal) {
	if rebate == nil || !rebate.IsPositive() {
		return
	}
	if types.IsFullPercent(*rebate) {
		res.UnitPrice = b.placeholderPrice()
	} else {
		res.UnitPrice = types.ApplyPercentOff(res.OriginalUnitPrice, *rebate)
	}
}

// applyPolicy prices the line with the plan's discount for the product.
// A zero valued policy is treated as no policy.
func (b *InvoiceDraftBuilder) applyPolicy(res *LineResult, plan *Plan) (*Discount, string) {
	if plan.PolicyFor == nil {
		return nil, ""
	}
	disc := plan.PolicyFor(res.ProductID)
	if disc == nil || disc.Value.IsZero() {
		return nil, ""
	}

	original := res.OriginalUnitPrice
	switch disc.Kind {
	case types.DiscountKindPercentage:
		if types.IsFullPercent(disc.Value) {
			res.UnitPrice = b.placeholderPrice()
			res.InsuredAmount = original.Mul(res.Quantity)
		} else {
			res.UnitPrice = b.roundPrice(types.ApplyPercentOff(original, disc.Value))
			res.InsuredAmount = original.Sub(res.UnitPrice).Mul(res.Quantity)
		}
	case types.DiscountKindFixed:
		res.UnitPrice = disc.Value
		res.InsuredAmount = original.Mul(res.Quantity)
	default:
		return nil, ""
	}
	return disc, coverageMarker(disc)
}

// applyCeiling overrides the patient price with the share of the line the remaining
// ceiling does not cover. It returns the balance left for the next lines.
func (b *InvoiceDraftBuilder) applyCeiling(res *LineResult, disc *Discount, balance decimal.Decimal) (decimal.Decimal, string) {
	original := res.OriginalUnitPrice
	amount := original.Mul(res.Quantity)

	if !balance.IsPositive() {
		res.UnitPrice = original
		res.InsuredAmount = decimal.Zero
		return decimal.Zero, ceilingMarker(disc)
	}

	if amount.LessThan(balance) {
		res.UnitPrice = decimal.Zero
		res.InsuredAmount = amount
		res.CeilingApplied = amount
		balance = balance.Sub(amount)
	} else {
		excess := amount.Sub(balance)
		if excess.IsZero() || res.Quantity.IsZero() {
			res.UnitPrice = b.placeholderPrice()
		} else {
			res.UnitPrice = excess.Div(res.Quantity)
		}
		res.InsuredAmount = balance
		res.CeilingApplied = balance
		balance = decimal.Zero
	}

	return balance, ceilingMarker(disc)
}

// ceilingMarker keeps the card's marker on every line priced against the ceiling,
// including lines billed at full price once it is exhausted
func ceilingMarker(disc *Discount) string {
	if disc != nil && disc.Kind == types.DiscountKindPercentage {
		return coverageMarker(disc)
	}
	return "Insurance plan"
}

func (b *InvoiceDraftBuilder) placeholderPrice() decimal.Decimal {
	return types.RoundPrice(b.placeholder, b.priceDigits)
}

func (b *InvoiceDraftBuilder) roundPrice(v decimal.Decimal) decimal.Decimal {
	v = types.RoundPrice(v, b.priceDigits)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func coverageMarker(disc *Discount) string {
	if disc.Kind == types.DiscountKindFixed {
		return "Insurance plan"
	}
	return fmt.Sprintf("Insurance %s%%", disc.Value.String())
}

func annotate(desc, marker string) string {
	if desc == "" {
		return "(" + marker + ")"
	}
	return desc + " (" + marker + ")"
}
