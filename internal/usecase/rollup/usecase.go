package rollup

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

type Usecase interface {
	Recompute(ctx context.Context, productID string) (*domain.RollupResult, error)
	RecomputeAll(ctx context.Context) (*BatchResult, error)
}

// BatchResult aggregates a batch run; one product's failure never aborts
// the rest.
type BatchResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"` // product ids that failed
}

type DefaultRollupUsecase struct {
	OfferRepo       domain.OfferRepository
	ProductRepo     domain.ProductRepository
	CoefficientRepo domain.CoefficientRepository
	Policy          config.RollupPolicy
	Metrics         *metrics.PricingMetrics

	productLocks sync.Map // productID -> *sync.Mutex
}

func NewDefaultRollupUsecase(
	offerRepo domain.OfferRepository,
	productRepo domain.ProductRepository,
	coefficientRepo domain.CoefficientRepository,
	policy config.RollupPolicy,
	pricingMetrics *metrics.PricingMetrics) *DefaultRollupUsecase {

	return &DefaultRollupUsecase{
		OfferRepo:       offerRepo,
		ProductRepo:     productRepo,
		CoefficientRepo: coefficientRepo,
		Policy:          policy,
		Metrics:         pricingMetrics,
	}
}

// Recompute derives the canonical public price, availability and stock for
// one product from a fresh snapshot of its active offers plus the active
// offers of other products sharing its EAN. Runs for different products may
// proceed concurrently; runs for the same product serialize on a per-product
// lock so a stale read can never overwrite a fresher rollup.
func (uc *DefaultRollupUsecase) Recompute(ctx context.Context, productID string) (*domain.RollupResult, error) {
	lock, _ := uc.productLocks.LoadOrStore(productID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	product, err := uc.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	offers, err := uc.collectOffers(ctx, product)
	if err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RollupErrorsTotal.Inc()
		}
		return nil, err
	}

	result := &domain.RollupResult{
		ProductID: productID,
		UpdatedAt: time.Now(),
	}

	price, source, err := uc.selectPrice(ctx, product, offers)
	if err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RollupErrorsTotal.Inc()
		}
		return nil, err
	}
	result.PublicPriceInclTax = price
	result.PublicPriceSource = source

	for _, offer := range offers {
		if !offer.InStock() {
			continue
		}
		result.IsAvailable = true
		if offer.StockQty > 0 {
			result.AvailableQtyTotal += offer.StockQty
		}
	}

	if err := uc.ProductRepo.UpdateRollup(ctx, productID, result); err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RollupErrorsTotal.Inc()
		}
		return nil, err
	}

	if uc.Metrics != nil {
		label := result.PublicPriceSource
		if label == "" {
			label = "none"
		}
		uc.Metrics.RollupsRecomputedTotal.WithLabelValues(label).Inc()
	}
	slog.Debug("rollup recomputed",
		"product_id", productID,
		"source", result.PublicPriceSource,
		"available", result.IsAvailable,
		"qty", result.AvailableQtyTotal)

	return result, nil
}

// RecomputeAll recomputes every product, checkpointable between iterations.
func (uc *DefaultRollupUsecase) RecomputeAll(ctx context.Context) (*BatchResult, error) {
	productIDs, err := uc.ProductRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := uc.Recompute(ctx, productID); err != nil {
			slog.Error("rollup recompute failed", "product_id", productID, "error", err.Error())
			result.Failed++
			result.Errors = append(result.Errors, productID)
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// collectOffers merges the product's own active offers with active offers
// reachable through the shared EAN, deduplicated by offer id so an offer
// visible through both paths is counted once.
func (uc *DefaultRollupUsecase) collectOffers(ctx context.Context, product *domain.Product) ([]*domain.SupplierOffer, error) {
	own, err := uc.OfferRepo.GetActiveByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	crossRef, err := uc.OfferRepo.GetActiveByEAN(ctx, product.EAN)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(own)+len(crossRef))
	merged := make([]*domain.SupplierOffer, 0, len(own)+len(crossRef))
	for _, offer := range append(own, crossRef...) {
		if seen[offer.ID] {
			continue
		}
		seen[offer.ID] = true
		merged = append(merged, offer)
	}
	return merged, nil
}

// selectPrice applies the fixed selection priority: the supplier resale
// price of the highest-priority supplier that has one, else purchase price
// times the category coefficient. No price at all is reported as a nil
// price, not an error.
func (uc *DefaultRollupUsecase) selectPrice(ctx context.Context, product *domain.Product, offers []*domain.SupplierOffer) (*decimal.Decimal, string, error) {
	for _, supplier := range uc.supplierOrder(offers) {
		for _, offer := range offers {
			if string(offer.Supplier) != supplier || !offer.HasListPrice() {
				continue
			}
			price := offer.ListPriceInclTax.Round(2)
			return &price, supplier, nil
		}
	}

	purchase := lowestPurchasePrice(offers)
	if purchase == nil {
		return nil, "", nil
	}

	coefficient, err := uc.lookupCoefficient(ctx, product)
	if err != nil {
		return nil, "", err
	}
	if coefficient == nil {
		return nil, "", nil
	}

	price := purchase.Mul(*coefficient).Round(2)
	return &price, domain.PriceSourceCoefficient, nil
}

// supplierOrder is the configured priority list followed by any suppliers
// present in the offers but absent from the config, in name order so the
// selection stays deterministic.
func (uc *DefaultRollupUsecase) supplierOrder(offers []*domain.SupplierOffer) []string {
	order := make([]string, 0, len(uc.Policy.SupplierPriority))
	known := make(map[string]bool)
	for _, supplier := range uc.Policy.SupplierPriority {
		order = append(order, supplier)
		known[supplier] = true
	}

	var extra []string
	seen := make(map[string]bool)
	for _, offer := range offers {
		name := string(offer.Supplier)
		if !known[name] && !seen[name] {
			seen[name] = true
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// lookupCoefficient walks the fallback chain as an ordered key list:
// (family, subfamily) -> (family, "") -> configured default.
func (uc *DefaultRollupUsecase) lookupCoefficient(ctx context.Context, product *domain.Product) (*decimal.Decimal, error) {
	type lookupKey struct{ family, subfamily string }
	keys := []lookupKey{
		{product.Family, product.Subfamily},
		{product.Family, ""},
	}

	for _, key := range keys {
		if key.family == "" {
			continue
		}
		coefficient, err := uc.CoefficientRepo.Get(ctx, key.family, key.subfamily)
		if err == nil {
			return &coefficient.Coefficient, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if uc.Policy.DefaultCoefficient > 0 {
		c := decimal.NewFromFloat(uc.Policy.DefaultCoefficient)
		return &c, nil
	}
	return nil, nil
}

func lowestPurchasePrice(offers []*domain.SupplierOffer) *decimal.Decimal {
	var lowest *decimal.Decimal
	for _, offer := range offers {
		p := offer.PurchasePriceExclTax
		if p == nil || !p.IsPositive() {
			continue
		}
		if lowest == nil || p.LessThan(*lowest) {
			lowest = p
		}
	}
	return lowest
}
