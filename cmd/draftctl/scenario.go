package main

import (
	"encoding/json"
	"os"

	"github.com/healthbill/healthbill/internal/billing"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// scenario is a self contained draft computation: the lines of a service, an optional
// insurance plan or rebate, and negotiated prices standing in for a price list
type scenario struct {
	Lines  []scenarioLine   `json:"lines"`
	Plan   *scenarioPlan    `json:"plan,omitempty"`
	Rebate *decimal.Decimal `json:"rebate,omitempty"`
	// Prices overrides the list price per product id
	Prices map[string]decimal.Decimal `json:"prices,omitempty"`
}

// scenarioLine is a billable line whose to_invoice flag defaults to true when absent
type scenarioLine struct {
	billing.BillableLine
	ToInvoice *bool `json:"to_invoice,omitempty"`
}

type scenarioPlan struct {
	ID      string           `json:"id"`
	Ceiling *decimal.Decimal `json:"ceiling,omitempty"`
	// Coverage applies to products without a policy of their own
	Coverage *decimal.Decimal            `json:"coverage,omitempty"`
	Policies map[string]billing.Discount `json:"policies,omitempty"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Could not read scenario file %s", path).
			Mark(ierr.ErrNotFound)
	}

	var sc scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Scenario file is not valid JSON").
			Mark(ierr.ErrValidation)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *scenario) validate() error {
	if sc.Rebate != nil && !types.IsValidPercent(*sc.Rebate) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Rebate must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if sc.Plan == nil {
		return nil
	}
	if sc.Plan.Coverage != nil && !types.IsValidPercent(*sc.Plan.Coverage) {
		return ierr.NewError("discount percentage out of range").
			WithHint("Plan coverage must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if sc.Plan.Ceiling != nil && sc.Plan.Ceiling.IsNegative() {
		return ierr.NewError("negative insurance ceiling").
			WithHint("Plan ceiling cannot be negative").
			Mark(ierr.ErrValidation)
	}
	for productID, d := range sc.Plan.Policies {
		if err := d.Kind.Validate(); err != nil {
			return err
		}
		if d.Kind == types.DiscountKindPercentage && !types.IsValidPercent(d.Value) {
			return ierr.NewError("discount percentage out of range").
				WithHintf("Policy of %s must be between 0 and 100", productID).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func (sc *scenario) input() billing.DraftInput {
	in := billing.DraftInput{
		Lines: lo.Map(sc.Lines, func(l scenarioLine, _ int) billing.BillableLine {
			line := l.BillableLine
			line.ToInvoice = lo.FromPtrOr(l.ToInvoice, true)
			return line
		}),
		Rebate: sc.Rebate,
	}

	if len(sc.Prices) > 0 {
		prices := sc.Prices
		in.PriceLookup = func(productID string, listPrice, _ decimal.Decimal, _ string) decimal.Decimal {
			if p, ok := prices[productID]; ok {
				return p
			}
			return listPrice
		}
	}

	if sc.Plan != nil {
		plan := sc.Plan
		in.Plan = &billing.Plan{
			ID:      plan.ID,
			Ceiling: plan.Ceiling,
			PolicyFor: func(productID string) *billing.Discount {
				if d, ok := plan.Policies[productID]; ok {
					return &d
				}
				if plan.Coverage != nil && plan.Coverage.IsPositive() {
					return &billing.Discount{Kind: types.DiscountKindPercentage, Value: *plan.Coverage}
				}
				return nil
			},
		}
	}
	return in
}
