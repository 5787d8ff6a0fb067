package strategies

import (
	"context"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceStrategy computes a candidate price for one product under one rule.
// Guardrail clamping happens after the strategy, uniformly, in the engine.
type PriceStrategy interface {
	Name() domain.PricingStrategy
	Compute(ctx context.Context, in *Input) (*Result, error)
}

// Input carries everything a strategy may read. All prices are tax
// inclusive; CostInclTax is the purchase cost grossed up by the product's
// tax rate so margins compare like with like.
type Input struct {
	Product         *domain.Product
	Rule            *domain.PricingRule
	CostInclTax     decimal.Decimal
	CurrentPrice    decimal.Decimal
	CompetitorAvg   decimal.Decimal
	CompetitorCount int
}

// Result is the raw strategy output before guardrails.
type Result struct {
	NewPrice decimal.Decimal
	// Basis summarizes the inputs that drove the price, for the
	// human-readable adjustment reason.
	Basis string
}

// requireCompetitors returns ErrDataUnavailable when too few live
// competitor prices exist for the rule to fire.
func requireCompetitors(in *Input) error {
	min := in.Rule.MinCompetitorCount
	if min < 1 {
		min = 1
	}
	if in.CompetitorCount < min {
		return domain.ErrDataUnavailable
	}
	return nil
}
