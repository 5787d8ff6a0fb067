package repository

import (
	"context"

	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/mappers"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProductRepository struct {
	DB *gorm.DB
}

func NewDefaultProductRepository(db *gorm.DB) *DefaultProductRepository {
	return &DefaultProductRepository{DB: db}
}

func (r *DefaultProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	var product models.ProductModel
	if err := r.DB.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mappers.ToDomainProduct(&product), nil
}

func (r *DefaultProductRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&models.ProductModel{}).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateRollup writes every rollup field in one statement so a rollup is
// never observable half-written. A map is used so nil prices clear the column.
func (r *DefaultProductRepository) UpdateRollup(ctx context.Context, productID string, rollup *domain.RollupResult) error {
	result := r.DB.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"public_price_incl_tax": rollup.PublicPriceInclTax,
			"public_price_source":   rollup.PublicPriceSource,
			"is_available":          rollup.IsAvailable,
			"available_qty_total":   rollup.AvailableQtyTotal,
			"rollup_updated_at":     rollup.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type DefaultCoefficientRepository struct {
	DB *gorm.DB
}

func NewDefaultCoefficientRepository(db *gorm.DB) *DefaultCoefficientRepository {
	return &DefaultCoefficientRepository{DB: db}
}

func (r *DefaultCoefficientRepository) Get(ctx context.Context, family, subfamily string) (*domain.CategoryCoefficient, error) {
	var model models.CategoryCoefficientModel
	err := r.DB.WithContext(ctx).
		First(&model, "family = ? AND subfamily = ?", family, subfamily).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return mappers.ToDomainCoefficient(&model), nil
}
