package strategies

import (
	"context"
	"fmt"

	"github.com/papelio/papelio-pricing-service/internal/domain"
)

// CompetitorMatchStrategy sets the price to the live competitor average.
// Does not fire when fewer than MinCompetitorCount snapshots exist.
type CompetitorMatchStrategy struct{}

func NewCompetitorMatchStrategy() *CompetitorMatchStrategy {
	return &CompetitorMatchStrategy{}
}

func (s *CompetitorMatchStrategy) Name() domain.PricingStrategy {
	return domain.StrategyCompetitorMatch
}

func (s *CompetitorMatchStrategy) Compute(ctx context.Context, in *Input) (*Result, error) {
	if err := requireCompetitors(in); err != nil {
		return nil, err
	}

	return &Result{
		NewPrice: in.CompetitorAvg,
		Basis: fmt.Sprintf("match competitor average %s (%d prices)",
			in.CompetitorAvg.StringFixed(2), in.CompetitorCount),
	}, nil
}
