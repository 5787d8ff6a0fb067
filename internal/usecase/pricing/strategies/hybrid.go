package strategies

import (
	"context"
	"fmt"

	"github.com/papelio/papelio-pricing-service/internal/domain"
)

// HybridStrategy combines margin-target with a competitor-derived ceiling:
// the margin floor is a hard constraint, the competitor price a soft
// ceiling. Without competitor data it degrades to pure margin targeting.
type HybridStrategy struct{}

func NewHybridStrategy() *HybridStrategy {
	return &HybridStrategy{}
}

func (s *HybridStrategy) Name() domain.PricingStrategy {
	return domain.StrategyHybrid
}

func (s *HybridStrategy) Compute(ctx context.Context, in *Input) (*Result, error) {
	marginPrice := PriceForMargin(in.CostInclTax, in.Rule.TargetMarginPercent)
	marginPrice = ClampToMarginBounds(marginPrice, in.CostInclTax, in.Rule.MinMarginPercent, in.Rule.MaxMarginPercent)

	if requireCompetitors(in) != nil {
		return &Result{
			NewPrice: marginPrice,
			Basis: fmt.Sprintf("target margin %.1f%% on cost %s, no competitor ceiling",
				in.Rule.TargetMarginPercent, in.CostInclTax.StringFixed(2)),
		}, nil
	}

	ceiling, _ := undercutPrice(in.CompetitorAvg, in.Rule)
	price := marginPrice
	basis := fmt.Sprintf("target margin %.1f%% on cost %s", in.Rule.TargetMarginPercent, in.CostInclTax.StringFixed(2))

	if ceiling.LessThan(price) {
		price = ceiling
		basis = fmt.Sprintf("competitor ceiling %s under margin-target price %s",
			ceiling.StringFixed(2), marginPrice.StringFixed(2))

		// Margin floor is hard: it wins over the ceiling.
		if in.Rule.MinMarginPercent != nil {
			floor := PriceForMargin(in.CostInclTax, *in.Rule.MinMarginPercent)
			if price.LessThan(floor) {
				price = floor
				basis += fmt.Sprintf(", raised to %.1f%% margin floor", *in.Rule.MinMarginPercent)
			}
		}
	}

	return &Result{NewPrice: price, Basis: basis}, nil
}
