package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSourceCoefficient marks a rollup price derived from the category
// coefficient table instead of a supplier resale price.
const PriceSourceCoefficient = "coefficient"

type Product struct {
	ID        string
	Name      string
	EAN       string
	Family    string
	Subfamily string
	CostPrice *decimal.Decimal
	TaxRate   float64

	// Rollup fields, derived only. Never hand-edited.
	PublicPriceInclTax *decimal.Decimal
	PublicPriceSource  string
	IsAvailable        bool
	AvailableQtyTotal  int
	RollupUpdatedAt    *time.Time
}

// RollupResult is the canonical price/stock figure computed from all offers.
type RollupResult struct {
	ProductID          string           `json:"product_id"`
	PublicPriceInclTax *decimal.Decimal `json:"public_price_incl_tax"`
	PublicPriceSource  string           `json:"public_price_source"`
	IsAvailable        bool             `json:"is_available"`
	AvailableQtyTotal  int              `json:"available_qty_total"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CategoryCoefficient is a markup multiplier applied to the purchase price
// when no supplier resale price exists. Subfamily rows override family rows.
type CategoryCoefficient struct {
	ID          string
	Family      string
	Subfamily   string
	Coefficient decimal.Decimal
}

type ProductRepository interface {
	GetByID(ctx context.Context, productID string) (*Product, error)
	ListIDs(ctx context.Context) ([]string, error)
	// UpdateRollup writes every rollup field in a single atomic update.
	UpdateRollup(ctx context.Context, productID string, rollup *RollupResult) error
}

type CoefficientRepository interface {
	// Get returns the coefficient for an exact (family, subfamily) key,
	// ErrNotFound when no row matches. Family-level rows use an empty subfamily.
	Get(ctx context.Context, family, subfamily string) (*CategoryCoefficient, error)
}
