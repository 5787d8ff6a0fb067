package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToGORMCompetitorPrice(price *domain.CompetitorPrice) *models.CompetitorPriceModel {
	return &models.CompetitorPriceModel{
		ID:                     price.ID,
		ProductID:              price.ProductID,
		CompetitorName:         price.CompetitorName,
		CompetitorPrice:        price.CompetitorPrice,
		CompetitorURL:          price.CompetitorURL,
		PriceDifference:        price.PriceDifference,
		PriceDifferencePercent: price.PriceDifferencePercent,
		ScrapedAt:              price.ScrapedAt,
	}
}

func ToDomainCompetitorPrice(model *models.CompetitorPriceModel) *domain.CompetitorPrice {
	return &domain.CompetitorPrice{
		ID:                     model.ID,
		ProductID:              model.ProductID,
		CompetitorName:         model.CompetitorName,
		CompetitorPrice:        model.CompetitorPrice,
		CompetitorURL:          model.CompetitorURL,
		PriceDifference:        model.PriceDifference,
		PriceDifferencePercent: model.PriceDifferencePercent,
		ScrapedAt:              model.ScrapedAt,
	}
}
