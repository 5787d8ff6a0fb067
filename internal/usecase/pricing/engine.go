package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
	"github.com/papelio/papelio-pricing-service/internal/usecase/adjustment"
	"github.com/papelio/papelio-pricing-service/internal/usecase/pricing/strategies"
	"github.com/shopspring/decimal"
)

// AutoApplyActor attributes adjustments applied without human review.
const AutoApplyActor = "system"

type EvaluateScope struct {
	RuleID     string   `json:"rule_id,omitempty"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

type EvaluateReport struct {
	Proposed int      `json:"proposed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"` // product ids that failed
}

type Engine struct {
	ProductRepo       domain.ProductRepository
	OfferRepo         domain.OfferRepository
	CompetitorRepo    domain.CompetitorRepository
	RuleRepo          domain.PricingRuleRepository
	AdjustmentRepo    domain.AdjustmentRepository
	AdjustmentUsecase adjustment.Usecase
	Policy            config.EnginePolicy
	Metrics           *metrics.PricingMetrics

	strategies map[domain.PricingStrategy]strategies.PriceStrategy
}

func NewEngine(
	productRepo domain.ProductRepository,
	offerRepo domain.OfferRepository,
	competitorRepo domain.CompetitorRepository,
	ruleRepo domain.PricingRuleRepository,
	adjustmentRepo domain.AdjustmentRepository,
	adjustmentUsecase adjustment.Usecase,
	policy config.EnginePolicy,
	pricingMetrics *metrics.PricingMetrics) *Engine {

	engine := &Engine{
		ProductRepo:       productRepo,
		OfferRepo:         offerRepo,
		CompetitorRepo:    competitorRepo,
		RuleRepo:          ruleRepo,
		AdjustmentRepo:    adjustmentRepo,
		AdjustmentUsecase: adjustmentUsecase,
		Policy:            policy,
		Metrics:           pricingMetrics,
		strategies:        make(map[domain.PricingStrategy]strategies.PriceStrategy),
	}

	engine.RegisterStrategy(strategies.NewMarginTargetStrategy())
	engine.RegisterStrategy(strategies.NewCompetitorMatchStrategy())
	engine.RegisterStrategy(strategies.NewCompetitorUndercutStrategy())
	engine.RegisterStrategy(strategies.NewHybridStrategy())

	return engine
}

func (e *Engine) RegisterStrategy(strategy strategies.PriceStrategy) {
	e.strategies[strategy.Name()] = strategy
}

// Evaluate runs the highest-priority matching rule for each in-scope
// product and emits at most one adjustment per product. The rule set is
// loaded once per run into an ordered slice; per-product failures are
// counted and skipped, never allowed to abort the batch.
func (e *Engine) Evaluate(ctx context.Context, scope EvaluateScope) (*EvaluateReport, error) {
	rules, err := e.loadRules(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}

	productIDs := scope.ProductIDs
	if len(productIDs) == 0 {
		productIDs, err = e.ProductRepo.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
	}

	report := &EvaluateReport{}
	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		emitted, err := e.evaluateProduct(ctx, productID, rules)
		switch {
		case errors.Is(err, domain.ErrDataUnavailable):
			report.Skipped++
			if e.Metrics != nil {
				e.Metrics.EvaluationSkippedTotal.Inc()
			}
		case err != nil:
			slog.Error("rule evaluation failed", "product_id", productID, "error", err.Error())
			report.Errors = append(report.Errors, productID)
			if e.Metrics != nil {
				e.Metrics.EvaluationErrorsTotal.Inc()
			}
		case emitted:
			report.Proposed++
		default:
			report.Skipped++
			if e.Metrics != nil {
				e.Metrics.EvaluationSkippedTotal.Inc()
			}
		}
	}
	return report, nil
}

func (e *Engine) loadRules(ctx context.Context, scope EvaluateScope) ([]*domain.PricingRule, error) {
	if scope.RuleID != "" {
		rule, err := e.RuleRepo.GetByID(ctx, scope.RuleID)
		if err != nil {
			return nil, err
		}
		return []*domain.PricingRule{rule}, nil
	}
	return e.RuleRepo.ListActive(ctx)
}

// evaluateProduct returns true when an adjustment was emitted. A false
// return without error means no rule matched or the change was negligible.
func (e *Engine) evaluateProduct(ctx context.Context, productID string, rules []*domain.PricingRule) (bool, error) {
	product, err := e.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product.PublicPriceInclTax == nil || !product.PublicPriceInclTax.IsPositive() {
		return false, domain.ErrDataUnavailable
	}
	currentPrice := *product.PublicPriceInclTax

	offers, err := e.OfferRepo.GetActiveByProduct(ctx, productID)
	if err != nil {
		return false, err
	}

	supplierPrice, costInclTax, err := e.costBasis(product, offers)
	if err != nil {
		return false, err
	}

	competitorAvg, competitorCount, err := e.competitorAverage(ctx, productID)
	if err != nil {
		return false, err
	}

	var rule *domain.PricingRule
	for _, candidate := range rules {
		if candidate.IsActive && candidate.Matches(product, offers) {
			rule = candidate
			break
		}
	}
	if rule == nil {
		return false, nil
	}

	strategy, exists := e.strategies[rule.Strategy]
	if !exists {
		return false, fmt.Errorf("no strategy registered for %q", rule.Strategy)
	}

	result, err := strategy.Compute(ctx, &strategies.Input{
		Product:         product,
		Rule:            rule,
		CostInclTax:     costInclTax,
		CurrentPrice:    currentPrice,
		CompetitorAvg:   competitorAvg,
		CompetitorCount: competitorCount,
	})
	if err != nil {
		return false, err
	}

	newPrice := e.applyGuardrails(result.NewPrice, currentPrice, rule)
	if newPrice.Sub(currentPrice).Abs().LessThanOrEqual(e.negligible()) {
		return false, nil
	}

	oldMargin := strategies.MarginPercent(currentPrice, costInclTax)
	newMargin := strategies.MarginPercent(newPrice, costInclTax)
	changePercent, _ := newPrice.Sub(currentPrice).Div(currentPrice).Mul(decimal.NewFromInt(100)).Round(2).Float64()

	adj := &domain.PriceAdjustment{
		ProductID:          productID,
		PricingRuleID:      rule.ID,
		OldPriceInclTax:    currentPrice,
		NewPriceInclTax:    newPrice,
		NewPriceExclTax:    exclTax(newPrice, product.TaxRate),
		PriceChangePercent: changePercent,
		OldMarginPercent:   oldMargin,
		NewMarginPercent:   newMargin,
		SupplierPrice:      supplierPrice,
		Status:             domain.AdjustmentPending,
		Reason: fmt.Sprintf("%s (%s): %s; price %s -> %s; margin %.1f%% -> %.1f%%",
			rule.Name, rule.Strategy, result.Basis,
			currentPrice.StringFixed(2), newPrice.StringFixed(2),
			oldMargin, newMargin),
	}
	if competitorCount > 0 {
		adj.CompetitorAvgPrice = &competitorAvg
	}

	if err := e.AdjustmentRepo.Create(ctx, adj); err != nil {
		return false, err
	}
	if e.Metrics != nil {
		e.Metrics.AdjustmentsProposedTotal.WithLabelValues(string(rule.Strategy)).Inc()
	}

	// Auto-apply skips the human queue but not the audit trail: the row was
	// created pending and goes through the same transition as a manual
	// approval.
	if !rule.RequireApproval {
		if _, err := e.AdjustmentUsecase.Approve(ctx, adj.ID, AutoApplyActor); err != nil {
			return false, fmt.Errorf("auto-apply failed: %w", err)
		}
	}

	return true, nil
}

// costBasis picks the cheapest active purchase price, falling back to the
// catalog cost. The returned supplier price stays tax exclusive for the
// audit fields; the cost used for margins is grossed up by the tax rate.
func (e *Engine) costBasis(product *domain.Product, offers []*domain.SupplierOffer) (*decimal.Decimal, decimal.Decimal, error) {
	var supplierPrice *decimal.Decimal
	for _, offer := range offers {
		p := offer.PurchasePriceExclTax
		if p == nil || !p.IsPositive() {
			continue
		}
		if supplierPrice == nil || p.LessThan(*supplierPrice) {
			supplierPrice = p
		}
	}

	costExcl := supplierPrice
	if costExcl == nil {
		costExcl = product.CostPrice
	}
	if costExcl == nil || !costExcl.IsPositive() {
		return nil, decimal.Zero, domain.ErrDataUnavailable
	}

	costIncl := costExcl.Mul(decimal.NewFromFloat(1 + product.TaxRate))
	return supplierPrice, costIncl, nil
}

func (e *Engine) competitorAverage(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	latest, err := e.CompetitorRepo.LatestByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	if len(latest) == 0 {
		return decimal.Zero, 0, nil
	}

	sum := decimal.Zero
	for _, price := range latest {
		sum = sum.Add(price.CompetitorPrice)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(latest)))).Round(2)
	return avg, len(latest), nil
}

// applyGuardrails clamps the strategy output to the price window, then the
// per-run change window, and rounds to cents.
func (e *Engine) applyGuardrails(price, currentPrice decimal.Decimal, rule *domain.PricingRule) decimal.Decimal {
	if rule.MinPriceInclTax != nil && price.LessThan(*rule.MinPriceInclTax) {
		price = *rule.MinPriceInclTax
	}
	if rule.MaxPriceInclTax != nil && price.GreaterThan(*rule.MaxPriceInclTax) {
		price = *rule.MaxPriceInclTax
	}

	if rule.MaxPriceChangePercent != nil {
		maxDelta := currentPrice.Mul(decimal.NewFromFloat(*rule.MaxPriceChangePercent / 100))
		if price.GreaterThan(currentPrice.Add(maxDelta)) {
			price = currentPrice.Add(maxDelta)
		}
		if price.LessThan(currentPrice.Sub(maxDelta)) {
			price = currentPrice.Sub(maxDelta)
		}
	}

	return price.Round(2)
}

func (e *Engine) negligible() decimal.Decimal {
	if e.Policy.NegligibleChange > 0 {
		return decimal.NewFromFloat(e.Policy.NegligibleChange)
	}
	return decimal.NewFromFloat(0.01)
}

func exclTax(priceInclTax decimal.Decimal, taxRate float64) decimal.Decimal {
	if taxRate <= 0 {
		return priceInclTax
	}
	return priceInclTax.Div(decimal.NewFromFloat(1 + taxRate)).Round(2)
}
