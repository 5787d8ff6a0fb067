package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToDomainProduct(model *models.ProductModel) *domain.Product {
	return &domain.Product{
		ID:                 model.ID,
		Name:               model.Name,
		EAN:                model.EAN,
		Family:             model.Family,
		Subfamily:          model.Subfamily,
		CostPrice:          model.CostPrice,
		TaxRate:            model.TaxRate,
		PublicPriceInclTax: model.PublicPriceInclTax,
		PublicPriceSource:  model.PublicPriceSource,
		IsAvailable:        model.IsAvailable,
		AvailableQtyTotal:  model.AvailableQtyTotal,
		RollupUpdatedAt:    model.RollupUpdatedAt,
	}
}

func ToDomainCoefficient(model *models.CategoryCoefficientModel) *domain.CategoryCoefficient {
	return &domain.CategoryCoefficient{
		ID:          model.ID,
		Family:      model.Family,
		Subfamily:   model.Subfamily,
		Coefficient: model.Coefficient,
	}
}
