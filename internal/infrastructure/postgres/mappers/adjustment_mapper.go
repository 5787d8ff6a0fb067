package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToGORMAdjustment(adj *domain.PriceAdjustment) *models.PriceAdjustmentModel {
	return &models.PriceAdjustmentModel{
		ID:                 adj.ID,
		ProductID:          adj.ProductID,
		PricingRuleID:      adj.PricingRuleID,
		OldPriceInclTax:    adj.OldPriceInclTax,
		NewPriceInclTax:    adj.NewPriceInclTax,
		NewPriceExclTax:    adj.NewPriceExclTax,
		PriceChangePercent: adj.PriceChangePercent,
		OldMarginPercent:   adj.OldMarginPercent,
		NewMarginPercent:   adj.NewMarginPercent,
		CompetitorAvgPrice: adj.CompetitorAvgPrice,
		SupplierPrice:      adj.SupplierPrice,
		Reason:             adj.Reason,
		Status:             string(adj.Status),
		AppliedBy:          adj.AppliedBy,
		AppliedAt:          adj.AppliedAt,
		CreatedAt:          adj.CreatedAt,
	}
}

func ToDomainAdjustment(model *models.PriceAdjustmentModel) *domain.PriceAdjustment {
	return &domain.PriceAdjustment{
		ID:                 model.ID,
		ProductID:          model.ProductID,
		PricingRuleID:      model.PricingRuleID,
		OldPriceInclTax:    model.OldPriceInclTax,
		NewPriceInclTax:    model.NewPriceInclTax,
		NewPriceExclTax:    model.NewPriceExclTax,
		PriceChangePercent: model.PriceChangePercent,
		OldMarginPercent:   model.OldMarginPercent,
		NewMarginPercent:   model.NewMarginPercent,
		CompetitorAvgPrice: model.CompetitorAvgPrice,
		SupplierPrice:      model.SupplierPrice,
		Reason:             model.Reason,
		Status:             domain.AdjustmentStatus(model.Status),
		AppliedBy:          model.AppliedBy,
		AppliedAt:          model.AppliedAt,
		CreatedAt:          model.CreatedAt,
	}
}
