package strategies

import (
	"context"
	"fmt"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
)

// CompetitorUndercutStrategy goes below the competitor average by a percent
// or fixed offset, never under the rule's margin floor.
type CompetitorUndercutStrategy struct{}

func NewCompetitorUndercutStrategy() *CompetitorUndercutStrategy {
	return &CompetitorUndercutStrategy{}
}

func (s *CompetitorUndercutStrategy) Name() domain.PricingStrategy {
	return domain.StrategyCompetitorUndercut
}

func (s *CompetitorUndercutStrategy) Compute(ctx context.Context, in *Input) (*Result, error) {
	if err := requireCompetitors(in); err != nil {
		return nil, err
	}

	price, basis := undercutPrice(in.CompetitorAvg, in.Rule)
	basis = fmt.Sprintf("%s of competitor average %s (%d prices)",
		basis, in.CompetitorAvg.StringFixed(2), in.CompetitorCount)

	if in.Rule.MinMarginPercent != nil {
		floor := PriceForMargin(in.CostInclTax, *in.Rule.MinMarginPercent)
		if price.LessThan(floor) {
			price = floor
			basis += fmt.Sprintf(", raised to %.1f%% margin floor", *in.Rule.MinMarginPercent)
		}
	}

	return &Result{NewPrice: price, Basis: basis}, nil
}

// undercutPrice applies whichever offset the rule configures; with neither
// configured the strategy degenerates to a plain match.
func undercutPrice(competitorAvg decimal.Decimal, rule *domain.PricingRule) (decimal.Decimal, string) {
	if rule.CompetitorOffsetPercent != nil {
		offset := decimal.NewFromFloat(1 - *rule.CompetitorOffsetPercent/100)
		return competitorAvg.Mul(offset), fmt.Sprintf("undercut %.1f%%", *rule.CompetitorOffsetPercent)
	}
	if rule.CompetitorOffsetFixed != nil {
		return competitorAvg.Sub(*rule.CompetitorOffsetFixed),
			fmt.Sprintf("undercut %s", rule.CompetitorOffsetFixed.StringFixed(2))
	}
	return competitorAvg, "match"
}
