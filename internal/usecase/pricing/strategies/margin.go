package strategies

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MarginPercent is the margin on price: (price - cost) / price * 100.
func MarginPercent(price, cost decimal.Decimal) float64 {
	if !price.IsPositive() {
		return 0
	}
	margin, _ := price.Sub(cost).Div(price).Mul(hundred).Float64()
	return margin
}

// PriceForMargin inverts MarginPercent: the price at which the given cost
// yields the given margin.
func PriceForMargin(cost decimal.Decimal, marginPercent float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 - marginPercent/100)
	if !factor.IsPositive() {
		return cost
	}
	return cost.Div(factor)
}

// ClampToMarginBounds pulls the price back inside the rule's margin window.
// A nil bound is unset.
func ClampToMarginBounds(price, cost decimal.Decimal, minMargin, maxMargin *float64) decimal.Decimal {
	if minMargin != nil && MarginPercent(price, cost) < *minMargin {
		price = PriceForMargin(cost, *minMargin)
	}
	if maxMargin != nil && MarginPercent(price, cost) > *maxMargin {
		price = PriceForMargin(cost, *maxMargin)
	}
	return price
}
