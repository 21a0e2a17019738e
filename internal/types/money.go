package types

import "github.com/shopspring/decimal"

const (
	// DefaultPriceDigits is the precision unit prices are stored with
	DefaultPriceDigits int32 = 4
	// DefaultAmountDigits is the precision of invoice level amounts
	DefaultAmountDigits int32 = 2
)

var (
	hundred = decimal.NewFromInt(100)

	// DefaultPlaceholderUnitPrice keeps fully covered lines from being priced at zero
	DefaultPlaceholderUnitPrice = decimal.RequireFromString("0.1")
)

// RoundPrice rounds a unit price using banker's rounding
func RoundPrice(v decimal.Decimal, digits int32) decimal.Decimal {
	return v.RoundBank(digits)
}

// RoundAmount rounds a monetary amount half-up (half away from zero)
func RoundAmount(v decimal.Decimal, digits int32) decimal.Decimal {
	return v.Round(digits)
}

// ApplyPercentOff returns v reduced by pct percent
func ApplyPercentOff(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(hundred.Sub(pct)).Div(hundred)
}

// IsValidPercent reports whether pct lies in [0, 100]
func IsValidPercent(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

// IsFullPercent reports whether pct is exactly 100
func IsFullPercent(pct decimal.Decimal) bool {
	return pct.Equal(hundred)
}
