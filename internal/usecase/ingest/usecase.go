package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

type Usecase interface {
	IngestCompetitorPrices(ctx context.Context, productIDs []string) (*IngestReport, error)
}

type IngestReport struct {
	Scraped int `json:"scraped"`
}

// DefaultIngestUsecase appends competitor snapshots. The delta fields are
// computed once, against the rollup price at write time, and never
// recomputed when the public price later moves.
type DefaultIngestUsecase struct {
	Source         domain.CompetitorSource
	ProductRepo    domain.ProductRepository
	CompetitorRepo domain.CompetitorRepository
	Metrics        *metrics.PricingMetrics
}

func NewDefaultIngestUsecase(
	source domain.CompetitorSource,
	productRepo domain.ProductRepository,
	competitorRepo domain.CompetitorRepository,
	pricingMetrics *metrics.PricingMetrics) *DefaultIngestUsecase {

	return &DefaultIngestUsecase{
		Source:         source,
		ProductRepo:    productRepo,
		CompetitorRepo: competitorRepo,
		Metrics:        pricingMetrics,
	}
}

func (uc *DefaultIngestUsecase) IngestCompetitorPrices(ctx context.Context, productIDs []string) (*IngestReport, error) {
	report := &IngestReport{}

	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		product, err := uc.ProductRepo.GetByID(ctx, productID)
		if err != nil {
			slog.Error("competitor ingestion skipped product", "product_id", productID, "error", err.Error())
			continue
		}
		if product.EAN == "" {
			continue
		}

		quotes, err := uc.Source.FetchQuotes(ctx, product.EAN)
		if err != nil {
			slog.Error("competitor fetch failed", "product_id", productID, "ean", product.EAN, "error", err.Error())
			continue
		}
		if len(quotes) == 0 {
			continue
		}

		now := time.Now()
		prices := make([]*domain.CompetitorPrice, 0, len(quotes))
		for _, quote := range quotes {
			price := &domain.CompetitorPrice{
				ProductID:       productID,
				CompetitorName:  quote.CompetitorName,
				CompetitorPrice: quote.Price,
				CompetitorURL:   quote.URL,
				ScrapedAt:       now,
			}
			if product.PublicPriceInclTax != nil && product.PublicPriceInclTax.IsPositive() {
				diff := quote.Price.Sub(*product.PublicPriceInclTax).Round(2)
				diffPct, _ := diff.Div(*product.PublicPriceInclTax).Mul(decimal.NewFromInt(100)).Round(2).Float64()
				price.PriceDifference = &diff
				price.PriceDifferencePercent = &diffPct
			}
			prices = append(prices, price)
		}

		if err := uc.CompetitorRepo.Append(ctx, prices); err != nil {
			slog.Error("failed to append competitor prices", "product_id", productID, "error", err.Error())
			continue
		}

		report.Scraped += len(prices)
		if uc.Metrics != nil {
			uc.Metrics.CompetitorPricesScrapedTotal.Add(float64(len(prices)))
		}
	}

	return report, nil
}
