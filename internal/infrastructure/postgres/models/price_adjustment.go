package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceAdjustmentModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	ProductID     string `gorm:"type:uuid;not null;index"`
	PricingRuleID string `gorm:"type:uuid;not null;index"`

	OldPriceInclTax    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewPriceInclTax    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NewPriceExclTax    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceChangePercent float64         `gorm:"type:decimal(8,2);not null"`
	OldMarginPercent   float64         `gorm:"type:decimal(8,2);not null"`
	NewMarginPercent   float64         `gorm:"type:decimal(8,2);not null"`

	CompetitorAvgPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SupplierPrice      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Reason             string           `gorm:"not null"`

	Status    string `gorm:"not null;default:'pending';index"`
	AppliedBy string
	AppliedAt *time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (PriceAdjustmentModel) TableName() string {
	return "price_adjustments"
}
