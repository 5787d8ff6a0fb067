package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompetitorPriceModel rows are append-only: price history is never
// rewritten when the public price moves.
type CompetitorPriceModel struct {
	ID                     string           `gorm:"primaryKey;type:uuid"`
	ProductID              string           `gorm:"type:uuid;not null;index:idx_competitor_product"`
	CompetitorName         string           `gorm:"not null;index:idx_competitor_product"`
	CompetitorPrice        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	CompetitorURL          string
	PriceDifference        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PriceDifferencePercent *float64         `gorm:"type:decimal(8,2)"`
	ScrapedAt              time.Time        `gorm:"not null;index"`
}

func (CompetitorPriceModel) TableName() string {
	return "competitor_prices"
}
