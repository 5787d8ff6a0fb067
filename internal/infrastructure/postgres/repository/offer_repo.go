package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/mappers"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOfferRepository struct {
	DB *gorm.DB
}

func NewDefaultOfferRepository(db *gorm.DB) *DefaultOfferRepository {
	return &DefaultOfferRepository{DB: db}
}

// SaveOffer keeps at most one active offer per (product, supplier): the
// previous active offer is deactivated, never deleted, so history survives.
func (r *DefaultOfferRepository) SaveOffer(ctx context.Context, offer *domain.SupplierOffer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	if offer.LastSeenAt.IsZero() {
		offer.LastSeenAt = time.Now()
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if offer.IsActive {
			err := tx.Model(&models.SupplierOfferModel{}).
				Where("product_id = ? AND supplier = ? AND is_active = ? AND id <> ?",
					offer.ProductID, string(offer.Supplier), true, offer.ID).
				Update("is_active", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(mappers.ToGORMOffer(offer)).Error
	})
}

func (r *DefaultOfferRepository) GetActiveByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error) {
	var offerModels []*models.SupplierOfferModel
	err := r.DB.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Find(&offerModels).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainOffers(offerModels), nil
}

func (r *DefaultOfferRepository) GetActiveByEAN(ctx context.Context, ean string) ([]*domain.SupplierOffer, error) {
	if ean == "" {
		return nil, nil
	}
	var offerModels []*models.SupplierOfferModel
	err := r.DB.WithContext(ctx).
		Joins("JOIN products ON products.id = supplier_offers.product_id").
		Where("products.ean = ? AND supplier_offers.is_active = ?", ean, true).
		Find(&offerModels).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainOffers(offerModels), nil
}

func (r *DefaultOfferRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error) {
	var offerModels []*models.SupplierOfferModel
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("last_seen_at DESC").
		Find(&offerModels).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainOffers(offerModels), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
