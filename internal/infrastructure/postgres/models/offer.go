package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SupplierOfferModel struct {
	ID                   string           `gorm:"primaryKey;type:uuid"`
	Supplier             string           `gorm:"not null;index:idx_offer_product_supplier"`
	ProductID            string           `gorm:"type:uuid;not null;index:idx_offer_product_supplier"`
	SupplierProductID    string           `gorm:"not null"`
	ListPriceInclTax     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PurchasePriceExclTax *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TaxRate              float64          `gorm:"type:decimal(5,4);not null"`
	StockQty             int              `gorm:"not null;default:0"`
	LeadTimeDays         int              `gorm:"not null;default:0"`
	MinOrderQty          int              `gorm:"not null;default:1"`
	IsActive             bool             `gorm:"not null;default:true;index"`
	LastSeenAt           time.Time        `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (SupplierOfferModel) TableName() string {
	return "supplier_offers"
}
