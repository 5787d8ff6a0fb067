package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PricingRuleModel struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	Name     string `gorm:"not null;unique"`
	Strategy string `gorm:"not null"`

	Category    string
	ProductIDs  pq.StringArray `gorm:"type:text[]"`
	SupplierIDs pq.StringArray `gorm:"type:text[]"`

	MinMarginPercent        *float64         `gorm:"type:decimal(6,2)"`
	MaxMarginPercent        *float64         `gorm:"type:decimal(6,2)"`
	TargetMarginPercent     float64          `gorm:"type:decimal(6,2);not null;default:0"`
	CompetitorOffsetPercent *float64         `gorm:"type:decimal(6,2)"`
	CompetitorOffsetFixed   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MinCompetitorCount      int              `gorm:"not null;default:1"`
	MinPriceInclTax         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxPriceInclTax         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxPriceChangePercent   *float64         `gorm:"type:decimal(6,2)"`

	RequireApproval bool `gorm:"not null;default:true"`
	Priority        int  `gorm:"not null;default:100;index"`
	IsActive        bool `gorm:"not null;default:true;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}
