package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToGORMRule(rule *domain.PricingRule) *models.PricingRuleModel {
	return &models.PricingRuleModel{
		ID:                      rule.ID,
		Name:                    rule.Name,
		Strategy:                string(rule.Strategy),
		Category:                rule.Category,
		ProductIDs:              rule.ProductIDs,
		SupplierIDs:             rule.SupplierIDs,
		MinMarginPercent:        rule.MinMarginPercent,
		MaxMarginPercent:        rule.MaxMarginPercent,
		TargetMarginPercent:     rule.TargetMarginPercent,
		CompetitorOffsetPercent: rule.CompetitorOffsetPercent,
		CompetitorOffsetFixed:   rule.CompetitorOffsetFixed,
		MinCompetitorCount:      rule.MinCompetitorCount,
		MinPriceInclTax:         rule.MinPriceInclTax,
		MaxPriceInclTax:         rule.MaxPriceInclTax,
		MaxPriceChangePercent:   rule.MaxPriceChangePercent,
		RequireApproval:         rule.RequireApproval,
		Priority:                rule.Priority,
		IsActive:                rule.IsActive,
		CreatedAt:               rule.CreatedAt,
		UpdatedAt:               rule.UpdatedAt,
	}
}

func ToDomainRule(model *models.PricingRuleModel) *domain.PricingRule {
	return &domain.PricingRule{
		ID:                      model.ID,
		Name:                    model.Name,
		Strategy:                domain.PricingStrategy(model.Strategy),
		Category:                model.Category,
		ProductIDs:              model.ProductIDs,
		SupplierIDs:             model.SupplierIDs,
		MinMarginPercent:        model.MinMarginPercent,
		MaxMarginPercent:        model.MaxMarginPercent,
		TargetMarginPercent:     model.TargetMarginPercent,
		CompetitorOffsetPercent: model.CompetitorOffsetPercent,
		CompetitorOffsetFixed:   model.CompetitorOffsetFixed,
		MinCompetitorCount:      model.MinCompetitorCount,
		MinPriceInclTax:         model.MinPriceInclTax,
		MaxPriceInclTax:         model.MaxPriceInclTax,
		MaxPriceChangePercent:   model.MaxPriceChangePercent,
		RequireApproval:         model.RequireApproval,
		Priority:                model.Priority,
		IsActive:                model.IsActive,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}
}
