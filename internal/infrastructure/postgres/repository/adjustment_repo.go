package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/mappers"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAdjustmentRepository struct {
	DB *gorm.DB
}

func NewDefaultAdjustmentRepository(db *gorm.DB) *DefaultAdjustmentRepository {
	return &DefaultAdjustmentRepository{DB: db}
}

func (r *DefaultAdjustmentRepository) Create(ctx context.Context, adj *domain.PriceAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	if adj.Status == "" {
		adj.Status = domain.AdjustmentPending
	}
	adj.CreatedAt = time.Now()
	return r.DB.WithContext(ctx).Create(mappers.ToGORMAdjustment(adj)).Error
}

func (r *DefaultAdjustmentRepository) GetByID(ctx context.Context, adjustmentID string) (*domain.PriceAdjustment, error) {
	var model models.PriceAdjustmentModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", adjustmentID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mappers.ToDomainAdjustment(&model), nil
}

func (r *DefaultAdjustmentRepository) List(ctx context.Context, status domain.AdjustmentStatus) ([]*domain.PriceAdjustment, error) {
	query := r.DB.WithContext(ctx).Model(&models.PriceAdjustmentModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var adjModels []*models.PriceAdjustmentModel
	if err := query.Order("created_at DESC").Find(&adjModels).Error; err != nil {
		return nil, err
	}

	adjustments := make([]*domain.PriceAdjustment, 0, len(adjModels))
	for _, m := range adjModels {
		adjustments = append(adjustments, mappers.ToDomainAdjustment(m))
	}
	return adjustments, nil
}

// ApproveAndApply is the collapsed approve+apply transition: the
// status-guarded UPDATE and the product price write commit together or not
// at all. Exactly one of two concurrent approvals can pass the guard; the
// loser reads the terminal status and gets a ConflictError.
func (r *DefaultAdjustmentRepository) ApproveAndApply(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error) {
	var applied *domain.PriceAdjustment

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		result := tx.Model(&models.PriceAdjustmentModel{}).
			Where("id = ? AND status = ?", adjustmentID, string(domain.AdjustmentPending)).
			Updates(map[string]interface{}{
				"status":     string(domain.AdjustmentApplied),
				"applied_by": actor,
				"applied_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current models.PriceAdjustmentModel
			if err := tx.First(&current, "id = ?", adjustmentID).Error; err != nil {
				return mapNotFound(err)
			}
			return &domain.ConflictError{
				Entity:    "adjustment",
				ID:        adjustmentID,
				Current:   current.Status,
				Requested: "approve",
			}
		}

		var model models.PriceAdjustmentModel
		if err := tx.First(&model, "id = ?", adjustmentID).Error; err != nil {
			return err
		}

		priceResult := tx.Model(&models.ProductModel{}).
			Where("id = ?", model.ProductID).
			Update("public_price_incl_tax", model.NewPriceInclTax)
		if priceResult.Error != nil {
			return priceResult.Error
		}
		if priceResult.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		applied = mappers.ToDomainAdjustment(&model)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func (r *DefaultAdjustmentRepository) Reject(ctx context.Context, adjustmentID, actor string) (*domain.PriceAdjustment, error) {
	now := time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.PriceAdjustmentModel{}).
		Where("id = ? AND status = ?", adjustmentID, string(domain.AdjustmentPending)).
		Updates(map[string]interface{}{
			"status":     string(domain.AdjustmentRejected),
			"applied_by": actor,
			"applied_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var current models.PriceAdjustmentModel
		if err := r.DB.WithContext(ctx).First(&current, "id = ?", adjustmentID).Error; err != nil {
			return nil, mapNotFound(err)
		}
		return nil, &domain.ConflictError{
			Entity:    "adjustment",
			ID:        adjustmentID,
			Current:   current.Status,
			Requested: "reject",
		}
	}
	return r.GetByID(ctx, adjustmentID)
}
