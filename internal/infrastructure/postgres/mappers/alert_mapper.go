package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToGORMAlert(alert *domain.PricingAlert) *models.PricingAlertModel {
	return &models.PricingAlertModel{
		ID:              alert.ID,
		AlertType:       string(alert.AlertType),
		Severity:        string(alert.Severity),
		ProductID:       alert.ProductID,
		CompetitorName:  alert.CompetitorName,
		Message:         alert.Message,
		OurPrice:        alert.OurPrice,
		CompetitorPrice: alert.CompetitorPrice,
		MarginPercent:   alert.MarginPercent,
		IsRead:          alert.IsRead,
		IsResolved:      alert.IsResolved,
		ResolvedBy:      alert.ResolvedBy,
		ResolvedAt:      alert.ResolvedAt,
		CreatedAt:       alert.CreatedAt,
	}
}

func ToDomainAlert(model *models.PricingAlertModel) *domain.PricingAlert {
	return &domain.PricingAlert{
		ID:              model.ID,
		AlertType:       domain.AlertType(model.AlertType),
		Severity:        domain.AlertSeverity(model.Severity),
		ProductID:       model.ProductID,
		CompetitorName:  model.CompetitorName,
		Message:         model.Message,
		OurPrice:        model.OurPrice,
		CompetitorPrice: model.CompetitorPrice,
		MarginPercent:   model.MarginPercent,
		IsRead:          model.IsRead,
		IsResolved:      model.IsResolved,
		ResolvedBy:      model.ResolvedBy,
		ResolvedAt:      model.ResolvedAt,
		CreatedAt:       model.CreatedAt,
	}
}
