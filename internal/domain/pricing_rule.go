package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PricingStrategy string

const (
	StrategyMarginTarget       PricingStrategy = "margin_target"
	StrategyCompetitorMatch    PricingStrategy = "competitor_match"
	StrategyCompetitorUndercut PricingStrategy = "competitor_undercut"
	StrategyHybrid             PricingStrategy = "hybrid"
)

// PricingRule is one named pricing policy. Rules are evaluated in priority
// order (ascending); the first active rule matching a product wins for that
// product, no merging of outputs.
type PricingRule struct {
	ID       string
	Name     string
	Strategy PricingStrategy

	// Scope. Empty fields match everything.
	Category    string
	ProductIDs  []string
	SupplierIDs []string

	// Guardrails. Nil means unset.
	MinMarginPercent        *float64
	MaxMarginPercent        *float64
	TargetMarginPercent     float64
	CompetitorOffsetPercent *float64
	CompetitorOffsetFixed   *decimal.Decimal
	MinCompetitorCount      int
	MinPriceInclTax         *decimal.Decimal
	MaxPriceInclTax         *decimal.Decimal
	MaxPriceChangePercent   *float64

	RequireApproval bool
	Priority        int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate rejects guardrail combinations that can never produce a price.
func (r *PricingRule) Validate() error {
	switch r.Strategy {
	case StrategyMarginTarget, StrategyCompetitorMatch, StrategyCompetitorUndercut, StrategyHybrid:
	default:
		return &ValidationError{Field: "strategy", Reason: "unknown strategy " + string(r.Strategy)}
	}
	if r.MinMarginPercent != nil && r.MaxMarginPercent != nil && *r.MinMarginPercent > *r.MaxMarginPercent {
		return &ValidationError{Field: "min_margin_percent", Reason: "min margin exceeds max margin"}
	}
	if r.MinPriceInclTax != nil && r.MaxPriceInclTax != nil && r.MinPriceInclTax.GreaterThan(*r.MaxPriceInclTax) {
		return &ValidationError{Field: "min_price_incl_tax", Reason: "min price exceeds max price"}
	}
	if (r.Strategy == StrategyMarginTarget || r.Strategy == StrategyHybrid) &&
		(r.TargetMarginPercent <= 0 || r.TargetMarginPercent >= 100) {
		return &ValidationError{Field: "target_margin_percent", Reason: "target margin must be in (0, 100)"}
	}
	if r.CompetitorOffsetPercent != nil && (*r.CompetitorOffsetPercent < 0 || *r.CompetitorOffsetPercent >= 100) {
		return &ValidationError{Field: "competitor_offset_percent", Reason: "offset percent must be in [0, 100)"}
	}
	if r.CompetitorOffsetFixed != nil && r.CompetitorOffsetFixed.IsNegative() {
		return &ValidationError{Field: "competitor_offset_fixed", Reason: "fixed offset cannot be negative"}
	}
	if r.MaxPriceChangePercent != nil && *r.MaxPriceChangePercent <= 0 {
		return &ValidationError{Field: "max_price_change_percent", Reason: "max price change must be positive"}
	}
	return nil
}

// Matches reports whether the rule's scope covers the product. Supplier
// scope is checked against the suppliers of the product's active offers.
func (r *PricingRule) Matches(product *Product, offers []*SupplierOffer) bool {
	if len(r.ProductIDs) > 0 {
		found := false
		for _, id := range r.ProductIDs {
			if id == product.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.Category != "" && r.Category != product.Family && r.Category != product.Subfamily {
		return false
	}
	if len(r.SupplierIDs) > 0 {
		found := false
		for _, sid := range r.SupplierIDs {
			for _, offer := range offers {
				if string(offer.Supplier) == sid {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *PricingRule) error
	Update(ctx context.Context, rule *PricingRule) error
	GetByID(ctx context.Context, ruleID string) (*PricingRule, error)
	// ListActive returns active rules ordered by ascending priority.
	ListActive(ctx context.Context) ([]*PricingRule, error)
	List(ctx context.Context) ([]*PricingRule, error)
}
