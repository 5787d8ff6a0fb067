package offer

import (
	"context"
	"log/slog"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/usecase/rollup"
)

type Usecase interface {
	Upsert(ctx context.Context, offer *domain.SupplierOffer) (*domain.RollupResult, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error)
}

// DefaultOfferUsecase records supplier feed updates. Every mutation
// immediately recomputes the product's rollup so the canonical price never
// lags the offer data it derives from.
type DefaultOfferUsecase struct {
	OfferRepo     domain.OfferRepository
	RollupUsecase rollup.Usecase
}

func NewDefaultOfferUsecase(offerRepo domain.OfferRepository, rollupUsecase rollup.Usecase) *DefaultOfferUsecase {
	return &DefaultOfferUsecase{
		OfferRepo:     offerRepo,
		RollupUsecase: rollupUsecase,
	}
}

func (uc *DefaultOfferUsecase) Upsert(ctx context.Context, offer *domain.SupplierOffer) (*domain.RollupResult, error) {
	if offer.ProductID == "" {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "product id is required"}
	}
	if offer.Supplier == "" {
		return nil, &domain.ValidationError{Field: "supplier", Reason: "supplier is required"}
	}
	if offer.StockQty < domain.UnlimitedStock {
		return nil, &domain.ValidationError{Field: "stock_qty", Reason: "stock qty cannot be below the unlimited marker"}
	}
	if offer.ListPriceInclTax != nil && offer.ListPriceInclTax.IsNegative() {
		return nil, &domain.ValidationError{Field: "list_price_incl_tax", Reason: "list price cannot be negative"}
	}
	if offer.PurchasePriceExclTax != nil && offer.PurchasePriceExclTax.IsNegative() {
		return nil, &domain.ValidationError{Field: "purchase_price_excl_tax", Reason: "purchase price cannot be negative"}
	}

	if offer.LastSeenAt.IsZero() {
		offer.LastSeenAt = time.Now()
	}

	if err := uc.OfferRepo.SaveOffer(ctx, offer); err != nil {
		return nil, err
	}
	slog.Info("supplier offer saved",
		"product_id", offer.ProductID,
		"supplier", string(offer.Supplier),
		"active", offer.IsActive)

	return uc.RollupUsecase.Recompute(ctx, offer.ProductID)
}

func (uc *DefaultOfferUsecase) ListByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error) {
	return uc.OfferRepo.ListByProduct(ctx, productID)
}
