package adjustment

import (
	"context"
	"log/slog"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	publisher "github.com/papelio/papelio-pricing-service/internal/infrastructure/kafka"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
)

type Usecase interface {
	Approve(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error)
	Reject(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error)
	Get(ctx context.Context, adjustmentID string) (*domain.PriceAdjustment, error)
	List(ctx context.Context, status domain.AdjustmentStatus) ([]*domain.PriceAdjustment, error)
}

type DefaultAdjustmentUsecase struct {
	AdjustmentRepo domain.AdjustmentRepository
	Publisher      *publisher.DefaultKafkaPublisher
	PriceTopic     string
	Metrics        *metrics.PricingMetrics
}

func NewDefaultAdjustmentUsecase(
	adjustmentRepo domain.AdjustmentRepository,
	kafkaPublisher *publisher.DefaultKafkaPublisher,
	priceTopic string,
	pricingMetrics *metrics.PricingMetrics) *DefaultAdjustmentUsecase {

	return &DefaultAdjustmentUsecase{
		AdjustmentRepo: adjustmentRepo,
		Publisher:      kafkaPublisher,
		PriceTopic:     priceTopic,
		Metrics:        pricingMetrics,
	}
}

// Approve runs the collapsed approve+apply transition: approval and price
// application are one observable action. The repository guarantees the
// status change and the product price write commit atomically, so a second
// concurrent approval fails with a conflict instead of overwriting.
func (uc *DefaultAdjustmentUsecase) Approve(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error) {
	if actor == "" {
		return nil, &domain.ValidationError{Field: "actor", Reason: "actor is required"}
	}

	applied, err := uc.AdjustmentRepo.ApproveAndApply(ctx, adjustmentID, actor)
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.AdjustmentsAppliedTotal.Inc()
	}
	slog.Info("price adjustment applied",
		"adjustment_id", applied.ID,
		"product_id", applied.ProductID,
		"new_price", applied.NewPriceInclTax.StringFixed(2),
		"actor", actor)

	if uc.Publisher != nil {
		go func(event publisher.PriceAppliedEvent) {
			if err := uc.Publisher.PublishPriceApplied(uc.PriceTopic, event); err != nil {
				slog.Error("failed to publish price applied event", "adjustment_id", event.AdjustmentID, "error", err.Error())
			}
		}(publisher.PriceAppliedEvent{
			AdjustmentID:    applied.ID,
			ProductID:       applied.ProductID,
			PricingRuleID:   applied.PricingRuleID,
			OldPriceInclTax: applied.OldPriceInclTax.StringFixed(2),
			NewPriceInclTax: applied.NewPriceInclTax.StringFixed(2),
			AppliedBy:       actor,
			AppliedAt:       appliedAtOrNow(applied),
		})
	}

	return applied, nil
}

// Reject marks the adjustment terminally rejected; the product price is
// untouched.
func (uc *DefaultAdjustmentUsecase) Reject(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error) {
	if actor == "" {
		return nil, &domain.ValidationError{Field: "actor", Reason: "actor is required"}
	}

	rejected, err := uc.AdjustmentRepo.Reject(ctx, adjustmentID, actor)
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.AdjustmentsRejectedTotal.Inc()
	}
	slog.Info("price adjustment rejected",
		"adjustment_id", rejected.ID,
		"product_id", rejected.ProductID,
		"actor", actor)

	return rejected, nil
}

func (uc *DefaultAdjustmentUsecase) Get(ctx context.Context, adjustmentID string) (*domain.PriceAdjustment, error) {
	return uc.AdjustmentRepo.GetByID(ctx, adjustmentID)
}

func (uc *DefaultAdjustmentUsecase) List(ctx context.Context, status domain.AdjustmentStatus) ([]*domain.PriceAdjustment, error) {
	return uc.AdjustmentRepo.List(ctx, status)
}

func appliedAtOrNow(adj *domain.PriceAdjustment) time.Time {
	if adj.AppliedAt != nil {
		return *adj.AppliedAt
	}
	return time.Now()
}
