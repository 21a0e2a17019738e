package insurance

import (
	"time"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Plan is an insurer's product: the discount policies applied to covered products
type Plan struct {
	ID               string   `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	InsurerID        *string  `json:"insurer_id,omitempty" db:"insurer_id"`
	ProductPolicies  []Policy `json:"product_policies,omitempty" db:"-"`
	CategoryPolicies []Policy `json:"category_policies,omitempty" db:"-"`
	types.BaseModel
}

// Policy is the discount granted on one product or on every product of a category
type Policy struct {
	ID         string             `json:"id" db:"id"`
	PlanID     string             `json:"plan_id" db:"plan_id"`
	ProductID  *string            `json:"product_id,omitempty" db:"product_id"`
	CategoryID *string            `json:"category_id,omitempty" db:"category_id"`
	Kind       types.DiscountKind `json:"kind" db:"kind"`
	Value      decimal.Decimal    `json:"value" db:"value"`
}

// Insurance is a member's insurance card. Its coverage applies when the plan
// has no policy for a product and its ceiling caps what the insurer pays per invoice.
type Insurance struct {
	ID         string           `json:"id" db:"id"`
	Number     string           `json:"number" db:"number"`
	PartyID    string           `json:"party_id" db:"party_id"`
	PlanID     string           `json:"plan_id" db:"plan_id"`
	InsurerID  *string          `json:"insurer_id,omitempty" db:"insurer_id"`
	EmployerID *string          `json:"employer_id,omitempty" db:"employer_id"`
	BPC        *string          `json:"bpc,omitempty" db:"bpc"`
	IssueDate  *time.Time       `json:"issue_date,omitempty" db:"issue_date"`
	Coverage   decimal.Decimal  `json:"coverage" db:"coverage"`
	Ceiling    *decimal.Decimal `json:"ceiling,omitempty" db:"ceiling"`
	types.BaseModel
}

// Discount is the resolved policy for one product
type Discount struct {
	Kind  types.DiscountKind `json:"kind"`
	Value decimal.Decimal    `json:"value"`
}

// ProductRef identifies the product a policy is looked up for
type ProductRef struct {
	ID         string
	CategoryID *string
}

// DiscountPolicy resolves the discount for a product: a product policy first,
// then a category policy, then the card coverage. nil means nothing is covered.
func (i *Insurance) DiscountPolicy(plan *Plan, p ProductRef) *Discount {
	if plan != nil {
		if pol, ok := lo.Find(plan.ProductPolicies, func(pol Policy) bool {
			return pol.ProductID != nil && *pol.ProductID == p.ID
		}); ok {
			return &Discount{Kind: pol.Kind, Value: pol.Value}
		}
		if p.CategoryID != nil {
			if pol, ok := lo.Find(plan.CategoryPolicies, func(pol Policy) bool {
				return pol.CategoryID != nil && *pol.CategoryID == *p.CategoryID
			}); ok {
				return &Discount{Kind: pol.Kind, Value: pol.Value}
			}
		}
	}
	if i.Coverage.IsPositive() {
		return &Discount{Kind: types.DiscountKindPercentage, Value: i.Coverage}
	}
	return nil
}

// IsFullCoverage reports whether the card pays every covered product in full
// with no cap on the invoice
func (i *Insurance) IsFullCoverage() bool {
	return types.IsFullPercent(i.Coverage) && i.Ceiling == nil
}

// HasCeiling reports whether the card caps the insurer's share of an invoice
func (i *Insurance) HasCeiling() bool {
	return i.Ceiling != nil
}

func (i *Insurance) Validate() error {
	if !types.IsValidPercent(i.Coverage) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Insurance coverage must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"insurance_id": i.ID,
				"coverage":     i.Coverage.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if i.Ceiling != nil && i.Ceiling.IsNegative() {
		return ierr.NewError("negative insurance ceiling").
			WithHint("Insurance ceiling cannot be negative").
			WithReportableDetails(map[string]any{
				"insurance_id": i.ID,
				"ceiling":      i.Ceiling.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (p *Plan) Validate() error {
	for _, pol := range p.ProductPolicies {
		if pol.ProductID == nil {
			return errDiscountWithoutElement(p.ID, "product")
		}
		if err := pol.validate(); err != nil {
			return err
		}
	}
	for _, pol := range p.CategoryPolicies {
		if pol.CategoryID == nil {
			return errDiscountWithoutElement(p.ID, "category")
		}
		if err := pol.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (pol Policy) validate() error {
	if err := pol.Kind.Validate(); err != nil {
		return err
	}
	if pol.Kind == types.DiscountKindPercentage && !types.IsValidPercent(pol.Value) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Policy discount must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"policy_id": pol.ID,
				"value":     pol.Value.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if pol.Value.IsNegative() {
		return ierr.NewError("negative policy discount").
			WithHint("Policy discount cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func errDiscountWithoutElement(planID, element string) error {
	return ierr.NewError("discount without element").
		WithHintf("Every %s policy must name a %s", element, element).
		WithReportableDetails(map[string]any{
			"plan_id": planID,
		}).
		Mark(ierr.ErrValidation)
}
