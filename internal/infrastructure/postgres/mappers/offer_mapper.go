package mappers

import (
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
)

func ToGORMOffer(offer *domain.SupplierOffer) *models.SupplierOfferModel {
	return &models.SupplierOfferModel{
		ID:                   offer.ID,
		Supplier:             string(offer.Supplier),
		ProductID:            offer.ProductID,
		SupplierProductID:    offer.SupplierProductID,
		ListPriceInclTax:     offer.ListPriceInclTax,
		PurchasePriceExclTax: offer.PurchasePriceExclTax,
		TaxRate:              offer.TaxRate,
		StockQty:             offer.StockQty,
		LeadTimeDays:         offer.LeadTimeDays,
		MinOrderQty:          offer.MinOrderQty,
		IsActive:             offer.IsActive,
		LastSeenAt:           offer.LastSeenAt,
	}
}

func ToDomainOffer(model *models.SupplierOfferModel) *domain.SupplierOffer {
	return &domain.SupplierOffer{
		ID:                   model.ID,
		Supplier:             domain.Supplier(model.Supplier),
		ProductID:            model.ProductID,
		SupplierProductID:    model.SupplierProductID,
		ListPriceInclTax:     model.ListPriceInclTax,
		PurchasePriceExclTax: model.PurchasePriceExclTax,
		TaxRate:              model.TaxRate,
		StockQty:             model.StockQty,
		LeadTimeDays:         model.LeadTimeDays,
		MinOrderQty:          model.MinOrderQty,
		IsActive:             model.IsActive,
		LastSeenAt:           model.LastSeenAt,
	}
}

func ToDomainOffers(models []*models.SupplierOfferModel) []*domain.SupplierOffer {
	offers := make([]*domain.SupplierOffer, 0, len(models))
	for _, m := range models {
		offers = append(offers, ToDomainOffer(m))
	}
	return offers
}
