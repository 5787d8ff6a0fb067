package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AlertType string

const (
	AlertCompetitorLowerPrice   AlertType = "competitor_lower_price"
	AlertPricingOpportunity     AlertType = "pricing_opportunity"
	AlertMarginBelowThreshold   AlertType = "margin_below_threshold"
	AlertPriceChangeRecommended AlertType = "price_change_recommended"
)

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// PricingAlert is advisory only: it never mutates price data. Resolution is
// one-way; resolved alerts stay in history and a persisting condition raises
// a fresh row instead of reopening an old one.
type PricingAlert struct {
	ID             string
	AlertType      AlertType
	Severity       AlertSeverity
	ProductID      string
	CompetitorName string
	Message        string

	OurPrice        *decimal.Decimal
	CompetitorPrice *decimal.Decimal
	MarginPercent   *float64

	IsRead     bool
	IsResolved bool
	ResolvedBy string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

type AlertRepository interface {
	Create(ctx context.Context, alert *PricingAlert) error
	GetByID(ctx context.Context, alertID string) (*PricingAlert, error)
	List(ctx context.Context, onlyOpen bool) ([]*PricingAlert, error)
	// HasOpen reports whether an unresolved alert of the given type already
	// exists for the product/competitor pair.
	HasOpen(ctx context.Context, productID string, alertType AlertType, competitorName string) (bool, error)
	// Resolve moves isResolved false -> true; ConflictError if already resolved.
	Resolve(ctx context.Context, alertID, actor string) (*PricingAlert, error)
	MarkRead(ctx context.Context, alertID string) error
}
