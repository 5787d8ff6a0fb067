package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/mappers"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPricingRuleRepository struct {
	DB *gorm.DB
}

func NewDefaultPricingRuleRepository(db *gorm.DB) *DefaultPricingRuleRepository {
	return &DefaultPricingRuleRepository{DB: db}
}

func (r *DefaultPricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	return r.DB.WithContext(ctx).Create(mappers.ToGORMRule(rule)).Error
}

func (r *DefaultPricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	rule.UpdatedAt = time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.PricingRuleModel{}).
		Where("id = ?", rule.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(mappers.ToGORMRule(rule))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DefaultPricingRuleRepository) GetByID(ctx context.Context, ruleID string) (*domain.PricingRule, error) {
	var model models.PricingRuleModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", ruleID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mappers.ToDomainRule(&model), nil
}

func (r *DefaultPricingRuleRepository) ListActive(ctx context.Context) ([]*domain.PricingRule, error) {
	var ruleModels []*models.PricingRuleModel
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, created_at ASC").
		Find(&ruleModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRules(ruleModels), nil
}

func (r *DefaultPricingRuleRepository) List(ctx context.Context) ([]*domain.PricingRule, error) {
	var ruleModels []*models.PricingRuleModel
	err := r.DB.WithContext(ctx).
		Order("priority ASC, created_at ASC").
		Find(&ruleModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRules(ruleModels), nil
}

func toDomainRules(ruleModels []*models.PricingRuleModel) []*domain.PricingRule {
	rules := make([]*domain.PricingRule, 0, len(ruleModels))
	for _, m := range ruleModels {
		rules = append(rules, mappers.ToDomainRule(m))
	}
	return rules
}
