package strategies

import (
	"context"
	"errors"
	"testing"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func fptr(v float64) *float64 { return &v }

func TestMarginTarget_HitsTarget(t *testing.T) {
	// cost 6.50, target 35% margin -> price = 6.50 / 0.65 = 10.00
	in := &Input{
		Rule:        &domain.PricingRule{Strategy: domain.StrategyMarginTarget, TargetMarginPercent: 35},
		CostInclTax: dec(6.50),
	}

	result, err := NewMarginTargetStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(10.00)) {
		t.Errorf("expected 10.00, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestMarginTarget_ClampedToMaxMargin(t *testing.T) {
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:            domain.StrategyMarginTarget,
			TargetMarginPercent: 60,
			MaxMarginPercent:    fptr(50),
		},
		CostInclTax: dec(5.00),
	}

	result, err := NewMarginTargetStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50% margin on cost 5.00 -> 10.00, not the 12.50 the target implies
	if !result.NewPrice.Round(2).Equal(dec(10.00)) {
		t.Errorf("expected clamp to 10.00, got %s", result.NewPrice.StringFixed(2))
	}
	margin := MarginPercent(result.NewPrice, in.CostInclTax)
	if margin > 50.01 {
		t.Errorf("margin %.2f exceeds configured max", margin)
	}
}

func TestCompetitorMatch_RequiresEnoughCompetitors(t *testing.T) {
	in := &Input{
		Rule:            &domain.PricingRule{Strategy: domain.StrategyCompetitorMatch, MinCompetitorCount: 3},
		CompetitorAvg:   dec(18.50),
		CompetitorCount: 2,
	}

	_, err := NewCompetitorMatchStrategy().Compute(context.Background(), in)
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	in.CompetitorCount = 3
	result, err := NewCompetitorMatchStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Equal(dec(18.50)) {
		t.Errorf("expected 18.50, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestCompetitorUndercut_PercentOffset(t *testing.T) {
	// competitor average 20.00, 5% undercut -> 19.00; margin floor at 17.00
	// does not bind
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:                domain.StrategyCompetitorUndercut,
			CompetitorOffsetPercent: fptr(5),
			MinMarginPercent:        fptr(15),
		},
		CostInclTax:     dec(14.45), // 15% margin floor => 17.00
		CompetitorAvg:   dec(20.00),
		CompetitorCount: 2,
	}

	result, err := NewCompetitorUndercutStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(19.00)) {
		t.Errorf("expected 19.00, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestCompetitorUndercut_ClampedToMarginFloor(t *testing.T) {
	// competitor average 18.00, 10% undercut would give 16.20, below the
	// 17.00 floor implied by cost 14.45 at 15% margin
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:                domain.StrategyCompetitorUndercut,
			CompetitorOffsetPercent: fptr(10),
			MinMarginPercent:        fptr(15),
		},
		CostInclTax:     dec(14.45),
		CompetitorAvg:   dec(18.00),
		CompetitorCount: 2,
	}

	result, err := NewCompetitorUndercutStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(17.00)) {
		t.Errorf("expected clamp to 17.00, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestCompetitorUndercut_FixedOffset(t *testing.T) {
	fixed := dec(1.50)
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:              domain.StrategyCompetitorUndercut,
			CompetitorOffsetFixed: &fixed,
		},
		CostInclTax:     dec(5.00),
		CompetitorAvg:   dec(12.00),
		CompetitorCount: 1,
	}

	result, err := NewCompetitorUndercutStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(10.50)) {
		t.Errorf("expected 10.50, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestHybrid_CompetitorCeilingWins(t *testing.T) {
	// margin-target price 10.00 (cost 6.50 at 35%), competitor average 9.00
	// caps it; margin floor 20% => 8.13 does not bind
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:            domain.StrategyHybrid,
			TargetMarginPercent: 35,
			MinMarginPercent:    fptr(20),
		},
		CostInclTax:     dec(6.50),
		CompetitorAvg:   dec(9.00),
		CompetitorCount: 2,
	}

	result, err := NewHybridStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(9.00)) {
		t.Errorf("expected 9.00, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestHybrid_MarginFloorIsHard(t *testing.T) {
	// competitor ceiling 7.00 would put margin under the 20% floor
	// (floor price = 6.50 / 0.8 = 8.125); floor wins over ceiling
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:            domain.StrategyHybrid,
			TargetMarginPercent: 35,
			MinMarginPercent:    fptr(20),
		},
		CostInclTax:     dec(6.50),
		CompetitorAvg:   dec(7.00),
		CompetitorCount: 2,
	}

	result, err := NewHybridStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	margin := MarginPercent(result.NewPrice, in.CostInclTax)
	if margin < 19.99 {
		t.Errorf("margin %.2f fell below the hard floor", margin)
	}
	if !result.NewPrice.Round(2).Equal(dec(8.13)) {
		t.Errorf("expected 8.13, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestHybrid_NoCompetitorDataFallsBackToMarginTarget(t *testing.T) {
	in := &Input{
		Rule: &domain.PricingRule{
			Strategy:            domain.StrategyHybrid,
			TargetMarginPercent: 35,
			MinCompetitorCount:  2,
		},
		CostInclTax:     dec(6.50),
		CompetitorCount: 0,
	}

	result, err := NewHybridStrategy().Compute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewPrice.Round(2).Equal(dec(10.00)) {
		t.Errorf("expected 10.00, got %s", result.NewPrice.StringFixed(2))
	}
}

func TestMarginRoundTrip(t *testing.T) {
	cost := dec(7.25)
	for _, margin := range []float64{10, 25, 42.5, 60} {
		price := PriceForMargin(cost, margin)
		got := MarginPercent(price, cost)
		if got < margin-0.01 || got > margin+0.01 {
			t.Errorf("margin %.1f: round trip gave %.3f", margin, got)
		}
	}
}
