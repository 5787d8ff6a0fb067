package postgres

import (
	"log"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.PricingConfig) *gorm.DB {
	dsn := cfg.PricingDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ProductModel{},
		&models.SupplierOfferModel{},
		&models.CategoryCoefficientModel{},
		&models.CompetitorPriceModel{},
		&models.PricingRuleModel{},
		&models.PriceAdjustmentModel{},
		&models.PricingAlertModel{},
	)

	return db
}
