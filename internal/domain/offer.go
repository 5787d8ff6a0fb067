package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Supplier string

const (
	SupplierAlkor     Supplier = "alkor"
	SupplierMajuscule Supplier = "majuscule"
	SupplierExacompta Supplier = "exacompta"
)

// UnlimitedStock marks an offer whose supplier reports no finite quantity.
// Such offers count as available but contribute nothing to the stock total.
const UnlimitedStock = -1

type SupplierOffer struct {
	ID                   string
	Supplier             Supplier
	ProductID            string
	SupplierProductID    string
	ListPriceInclTax     *decimal.Decimal
	PurchasePriceExclTax *decimal.Decimal
	TaxRate              float64
	StockQty             int
	LeadTimeDays         int
	MinOrderQty          int
	IsActive             bool
	LastSeenAt           time.Time
}

// HasListPrice reports whether the supplier provided a usable public resale price.
func (o *SupplierOffer) HasListPrice() bool {
	return o.ListPriceInclTax != nil && o.ListPriceInclTax.IsPositive()
}

// InStock reports whether the offer can currently be sold from.
func (o *SupplierOffer) InStock() bool {
	return o.StockQty > 0 || o.StockQty == UnlimitedStock
}

type OfferRepository interface {
	// SaveOffer upserts the active offer for (product, supplier),
	// deactivating any previous active offer for the same pair.
	SaveOffer(ctx context.Context, offer *SupplierOffer) error
	GetActiveByProduct(ctx context.Context, productID string) ([]*SupplierOffer, error)
	// GetActiveByEAN returns active offers of every product sharing the EAN.
	GetActiveByEAN(ctx context.Context, ean string) ([]*SupplierOffer, error)
	ListByProduct(ctx context.Context, productID string) ([]*SupplierOffer, error)
}
