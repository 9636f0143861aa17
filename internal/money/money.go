// Package money holds the fixed-point arithmetic used for prices, tax rates and totals.
//
// Amounts are rounded half up to Scale (2) fractional digits. Rates are percentages.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits kept on every monetary amount.
const Scale int32 = 2

var hundred = decimal.NewFromInt(100)

// Round rounds d half up to Scale digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Percent returns round(amount * rate / 100). A zero rate yields zero.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return Round(amount.Mul(rate).Div(hundred))
}

// Sum adds the given amounts. No arguments sum to zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// IsPositive reports d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// HasValidScale reports whether d has at most Scale fractional digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// Format renders d with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
