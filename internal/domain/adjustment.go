package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentApplied  AdjustmentStatus = "applied"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from the status.
func (s AdjustmentStatus) Terminal() bool {
	return s == AdjustmentApplied || s == AdjustmentRejected
}

// PriceAdjustment is one proposed price change. A row is immutable once
// applied; re-evaluation creates new rows, never mutates past ones.
type PriceAdjustment struct {
	ID            string
	ProductID     string
	PricingRuleID string

	OldPriceInclTax    decimal.Decimal
	NewPriceInclTax    decimal.Decimal
	NewPriceExclTax    decimal.Decimal
	PriceChangePercent float64
	OldMarginPercent   float64
	NewMarginPercent   float64

	CompetitorAvgPrice *decimal.Decimal
	SupplierPrice      *decimal.Decimal
	Reason             string

	Status    AdjustmentStatus
	AppliedBy string
	AppliedAt *time.Time
	CreatedAt time.Time
}

type AdjustmentRepository interface {
	Create(ctx context.Context, adj *PriceAdjustment) error
	GetByID(ctx context.Context, adjustmentID string) (*PriceAdjustment, error)
	List(ctx context.Context, status AdjustmentStatus) ([]*PriceAdjustment, error)

	// ApproveAndApply performs the collapsed approve+apply transition in one
	// transaction: status pending -> applied guarded by the current status,
	// and the product price written from the adjustment. Returns
	// ConflictError when the adjustment is no longer pending.
	ApproveAndApply(ctx context.Context, adjustmentID, actor string) (*PriceAdjustment, error)

	// Reject moves pending -> rejected without touching the product price.
	Reject(ctx context.Context, adjustmentID, actor string) (*PriceAdjustment, error)
}
