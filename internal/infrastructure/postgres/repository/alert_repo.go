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

type DefaultAlertRepository struct {
	DB *gorm.DB
}

func NewDefaultAlertRepository(db *gorm.DB) *DefaultAlertRepository {
	return &DefaultAlertRepository{DB: db}
}

func (r *DefaultAlertRepository) Create(ctx context.Context, alert *domain.PricingAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	alert.CreatedAt = time.Now()
	return r.DB.WithContext(ctx).Create(mappers.ToGORMAlert(alert)).Error
}

func (r *DefaultAlertRepository) GetByID(ctx context.Context, alertID string) (*domain.PricingAlert, error) {
	var model models.PricingAlertModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", alertID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mappers.ToDomainAlert(&model), nil
}

func (r *DefaultAlertRepository) List(ctx context.Context, onlyOpen bool) ([]*domain.PricingAlert, error) {
	query := r.DB.WithContext(ctx).Model(&models.PricingAlertModel{})
	if onlyOpen {
		query = query.Where("is_resolved = ?", false)
	}
	var alertModels []*models.PricingAlertModel
	if err := query.Order("created_at DESC").Find(&alertModels).Error; err != nil {
		return nil, err
	}

	alerts := make([]*domain.PricingAlert, 0, len(alertModels))
	for _, m := range alertModels {
		alerts = append(alerts, mappers.ToDomainAlert(m))
	}
	return alerts, nil
}

func (r *DefaultAlertRepository) HasOpen(ctx context.Context, productID string, alertType domain.AlertType, competitorName string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.PricingAlertModel{}).
		Where("product_id = ? AND alert_type = ? AND competitor_name = ? AND is_resolved = ?",
			productID, string(alertType), competitorName, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Resolve is one-way: a resolved alert can never return to unresolved and
// a second resolve attempt fails with a conflict, not a silent overwrite.
func (r *DefaultAlertRepository) Resolve(ctx context.Context, alertID, actor string) (*domain.PricingAlert, error) {
	now := time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.PricingAlertModel{}).
		Where("id = ? AND is_resolved = ?", alertID, false).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_by": actor,
			"resolved_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var current models.PricingAlertModel
		if err := r.DB.WithContext(ctx).First(&current, "id = ?", alertID).Error; err != nil {
			return nil, mapNotFound(err)
		}
		return nil, &domain.ConflictError{
			Entity:    "alert",
			ID:        alertID,
			Current:   "resolved",
			Requested: "resolve",
		}
	}
	return r.GetByID(ctx, alertID)
}

func (r *DefaultAlertRepository) MarkRead(ctx context.Context, alertID string) error {
	result := r.DB.WithContext(ctx).
		Model(&models.PricingAlertModel{}).
		Where("id = ?", alertID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
