package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductModel struct {
	ID        string           `gorm:"primaryKey;type:uuid"`
	Name      string           `gorm:"not null"`
	EAN       string           `gorm:"index:idx_product_ean"`
	Family    string           `gorm:"index"`
	Subfamily string           `gorm:"index"`
	CostPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TaxRate   float64          `gorm:"type:decimal(5,4);not null;default:0.2"`

	// Rollup fields, written only by the rollup engine.
	PublicPriceInclTax *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PublicPriceSource  string
	IsAvailable        bool `gorm:"not null;default:false"`
	AvailableQtyTotal  int  `gorm:"not null;default:0"`
	RollupUpdatedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

type CategoryCoefficientModel struct {
	ID          string          `gorm:"primaryKey;type:uuid"`
	Family      string          `gorm:"not null;uniqueIndex:idx_coefficient_key"`
	Subfamily   string          `gorm:"uniqueIndex:idx_coefficient_key"`
	Coefficient decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryCoefficientModel) TableName() string {
	return "category_coefficients"
}
