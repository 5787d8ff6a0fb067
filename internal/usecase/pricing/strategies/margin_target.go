package strategies

import (
	"context"
	"fmt"

	"github.com/papelio/papelio-pricing-service/internal/domain"
)

// MarginTargetStrategy reprices to hit the rule's target margin on cost,
// kept inside the configured margin window.
type MarginTargetStrategy struct{}

func NewMarginTargetStrategy() *MarginTargetStrategy {
	return &MarginTargetStrategy{}
}

func (s *MarginTargetStrategy) Name() domain.PricingStrategy {
	return domain.StrategyMarginTarget
}

func (s *MarginTargetStrategy) Compute(ctx context.Context, in *Input) (*Result, error) {
	price := PriceForMargin(in.CostInclTax, in.Rule.TargetMarginPercent)
	price = ClampToMarginBounds(price, in.CostInclTax, in.Rule.MinMarginPercent, in.Rule.MaxMarginPercent)

	return &Result{
		NewPrice: price,
		Basis: fmt.Sprintf("target margin %.1f%% on cost %s",
			in.Rule.TargetMarginPercent, in.CostInclTax.StringFixed(2)),
	}, nil
}
