package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PricingAlertModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	AlertType      string `gorm:"not null;index:idx_alert_open"`
	Severity       string `gorm:"not null"`
	ProductID      string `gorm:"type:uuid;not null;index:idx_alert_open"`
	CompetitorName string `gorm:"index:idx_alert_open"`
	Message        string `gorm:"not null"`

	OurPrice        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CompetitorPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MarginPercent   *float64         `gorm:"type:decimal(8,2)"`

	IsRead     bool `gorm:"not null;default:false"`
	IsResolved bool `gorm:"not null;default:false;index:idx_alert_open"`
	ResolvedBy string
	ResolvedAt *time.Time
	CreatedAt  time.Time `gorm:"index"`
}

func (PricingAlertModel) TableName() string {
	return "pricing_alerts"
}
