package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CompetitorPrice is one scraped snapshot. Rows are append-only; the
// difference fields are frozen at write time against the rollup price of
// that instant and never recomputed.
type CompetitorPrice struct {
	ID                     string
	ProductID              string
	CompetitorName         string
	CompetitorPrice        decimal.Decimal
	CompetitorURL          string
	PriceDifference        *decimal.Decimal
	PriceDifferencePercent *float64
	ScrapedAt              time.Time
}

type CompetitorRepository interface {
	Append(ctx context.Context, prices []*CompetitorPrice) error
	// LatestByProduct returns the most recent snapshot per competitor.
	LatestByProduct(ctx context.Context, productID string) ([]*CompetitorPrice, error)
}

// CompetitorQuote is one live price fetched from a competitor source.
type CompetitorQuote struct {
	CompetitorName string
	Price          decimal.Decimal
	URL            string
}

// CompetitorSource fetches current competitor quotes for a product.
// Implementations are network-bound and must never be called from the
// rollup or rule-evaluation paths.
type CompetitorSource interface {
	FetchQuotes(ctx context.Context, ean string) ([]CompetitorQuote, error)
}
