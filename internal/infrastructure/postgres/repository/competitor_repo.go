package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/mappers"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCompetitorRepository struct {
	DB *gorm.DB
}

func NewDefaultCompetitorRepository(db *gorm.DB) *DefaultCompetitorRepository {
	return &DefaultCompetitorRepository{DB: db}
}

func (r *DefaultCompetitorRepository) Append(ctx context.Context, prices []*domain.CompetitorPrice) error {
	if len(prices) == 0 {
		return nil
	}
	priceModels := make([]*models.CompetitorPriceModel, 0, len(prices))
	for _, price := range prices {
		if price.ID == "" {
			price.ID = uuid.New().String()
		}
		priceModels = append(priceModels, mappers.ToGORMCompetitorPrice(price))
	}
	return r.DB.WithContext(ctx).Create(priceModels).Error
}

// LatestByProduct keeps one row per competitor, the most recently scraped.
func (r *DefaultCompetitorRepository) LatestByProduct(ctx context.Context, productID string) ([]*domain.CompetitorPrice, error) {
	var priceModels []*models.CompetitorPriceModel
	err := r.DB.WithContext(ctx).
		Where(`id IN (
			SELECT DISTINCT ON (competitor_name) id
			FROM competitor_prices
			WHERE product_id = ?
			ORDER BY competitor_name, scraped_at DESC
		)`, productID).
		Find(&priceModels).Error
	if err != nil {
		return nil, err
	}

	prices := make([]*domain.CompetitorPrice, 0, len(priceModels))
	for _, m := range priceModels {
		prices = append(prices, mappers.ToDomainCompetitorPrice(m))
	}
	return prices, nil
}
