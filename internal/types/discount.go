package types

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/samber/lo"
)

// DiscountKind is how an insurance policy value is interpreted
type DiscountKind string

const (
	// DiscountKindPercentage reduces the unit price by a share of the list price
	DiscountKindPercentage DiscountKind = "percentage"
	// DiscountKindFixed replaces the unit price with the policy value
	DiscountKindFixed DiscountKind = "fixed"
)

func (k DiscountKind) String() string {
	return string(k)
}

func (k DiscountKind) Validate() error {
	allowed := []DiscountKind{
		DiscountKindPercentage,
		DiscountKindFixed,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid discount kind").
			WithHint("Discount kind must be percentage or fixed").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
