package publisher

import (
	"encoding/json"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/domain"
)

// PriceAppliedEvent notifies downstream consumers (storefront cache,
// order service) that a product's public price changed.
type PriceAppliedEvent struct {
	AdjustmentID    string    `json:"adjustment_id"`
	ProductID       string    `json:"product_id"`
	PricingRuleID   string    `json:"pricing_rule_id"`
	OldPriceInclTax string    `json:"old_price_incl_tax"`
	NewPriceInclTax string    `json:"new_price_incl_tax"`
	AppliedBy       string    `json:"applied_by"`
	AppliedAt       time.Time `json:"applied_at"`
}

// AlertRaisedEvent mirrors a new pricing alert onto the broker so the
// back-office notification feed does not have to poll.
type AlertRaisedEvent struct {
	AlertID   string    `json:"alert_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	ProductID string    `json:"product_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (k *DefaultKafkaPublisher) PublishPriceApplied(topic string, event PriceAppliedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(topic, domain.Message{Key: []byte(event.ProductID), Value: v})
}

func (k *DefaultKafkaPublisher) PublishAlertRaised(topic string, event AlertRaisedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(topic, domain.Message{Key: []byte(event.ProductID), Value: v})
}
