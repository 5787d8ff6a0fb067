package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	publisher "github.com/papelio/papelio-pricing-service/internal/infrastructure/kafka"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
	"github.com/papelio/papelio-pricing-service/internal/usecase/pricing/strategies"
	"github.com/shopspring/decimal"
)

type Usecase interface {
	Detect(ctx context.Context) (*DetectReport, error)
	Resolve(ctx context.Context, alertID, actor string) (*domain.PricingAlert, error)
	List(ctx context.Context, onlyOpen bool) ([]*domain.PricingAlert, error)
	MarkRead(ctx context.Context, alertID string) error
}

type DetectReport struct {
	Created int `json:"created"`
}

// DefaultAlertUsecase scans rollup, margin and competitor data for policy
// violations and opportunities. Alerts are advisory: nothing here ever
// writes price data.
type DefaultAlertUsecase struct {
	ProductRepo    domain.ProductRepository
	OfferRepo      domain.OfferRepository
	CompetitorRepo domain.CompetitorRepository
	AlertRepo      domain.AlertRepository
	Policy         config.AlertPolicy
	Metrics        *metrics.PricingMetrics
	Publisher      *publisher.DefaultKafkaPublisher
	AlertTopic     string
}

func NewDefaultAlertUsecase(
	productRepo domain.ProductRepository,
	offerRepo domain.OfferRepository,
	competitorRepo domain.CompetitorRepository,
	alertRepo domain.AlertRepository,
	policy config.AlertPolicy,
	pricingMetrics *metrics.PricingMetrics,
	kafkaPublisher *publisher.DefaultKafkaPublisher,
	alertTopic string) *DefaultAlertUsecase {

	return &DefaultAlertUsecase{
		ProductRepo:    productRepo,
		OfferRepo:      offerRepo,
		CompetitorRepo: competitorRepo,
		AlertRepo:      alertRepo,
		Policy:         policy,
		Metrics:        pricingMetrics,
		Publisher:      kafkaPublisher,
		AlertTopic:     alertTopic,
	}
}

func (uc *DefaultAlertUsecase) Detect(ctx context.Context) (*DetectReport, error) {
	productIDs, err := uc.ProductRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &DetectReport{}
	for _, productID := range productIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		created, err := uc.scanProduct(ctx, productID)
		if err != nil {
			slog.Error("alert scan failed", "product_id", productID, "error", err.Error())
			continue
		}
		report.Created += created
	}
	return report, nil
}

func (uc *DefaultAlertUsecase) scanProduct(ctx context.Context, productID string) (int, error) {
	product, err := uc.ProductRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	created := 0

	// A product without a sellable price is actionable information, not an
	// error: surface it for repricing.
	if product.PublicPriceInclTax == nil || !product.PublicPriceInclTax.IsPositive() {
		n, err := uc.raise(ctx, &domain.PricingAlert{
			AlertType: domain.AlertPriceChangeRecommended,
			Severity:  domain.SeverityHigh,
			ProductID: productID,
			Message:   "no sellable public price could be derived from current offers",
		})
		if err != nil {
			return created, err
		}
		return created + n, nil
	}
	ourPrice := *product.PublicPriceInclTax

	if n, err := uc.scanMargin(ctx, product, ourPrice); err != nil {
		return created, err
	} else {
		created += n
	}

	latest, err := uc.CompetitorRepo.LatestByProduct(ctx, productID)
	if err != nil {
		return created, err
	}
	if len(latest) == 0 {
		return created, nil
	}

	if n, err := uc.scanCompetitors(ctx, product, ourPrice, latest); err != nil {
		return created, err
	} else {
		created += n
	}

	return created, nil
}

func (uc *DefaultAlertUsecase) scanMargin(ctx context.Context, product *domain.Product, ourPrice decimal.Decimal) (int, error) {
	offers, err := uc.OfferRepo.GetActiveByProduct(ctx, product.ID)
	if err != nil {
		return 0, err
	}

	var costExcl *decimal.Decimal
	for _, offer := range offers {
		p := offer.PurchasePriceExclTax
		if p == nil || !p.IsPositive() {
			continue
		}
		if costExcl == nil || p.LessThan(*costExcl) {
			costExcl = p
		}
	}
	if costExcl == nil {
		costExcl = product.CostPrice
	}
	if costExcl == nil || !costExcl.IsPositive() {
		return 0, nil
	}

	costIncl := costExcl.Mul(decimal.NewFromFloat(1 + product.TaxRate))
	margin := strategies.MarginPercent(ourPrice, costIncl)
	if margin >= uc.Policy.MinMarginPercent {
		return 0, nil
	}

	deficit := uc.Policy.MinMarginPercent - margin
	return uc.raise(ctx, &domain.PricingAlert{
		AlertType:     domain.AlertMarginBelowThreshold,
		Severity:      uc.severityForMarginDeficit(deficit),
		ProductID:     product.ID,
		OurPrice:      &ourPrice,
		MarginPercent: &margin,
		Message: fmt.Sprintf("margin %.1f%% is %.1f points below the %.1f%% floor",
			margin, deficit, uc.Policy.MinMarginPercent),
	})
}

func (uc *DefaultAlertUsecase) scanCompetitors(ctx context.Context, product *domain.Product, ourPrice decimal.Decimal, latest []*domain.CompetitorPrice) (int, error) {
	created := 0

	for _, snapshot := range latest {
		gapPct := percentBelow(ourPrice, snapshot.CompetitorPrice)
		if gapPct <= uc.Policy.CompetitorGapPercent {
			continue
		}
		competitorPrice := snapshot.CompetitorPrice
		n, err := uc.raise(ctx, &domain.PricingAlert{
			AlertType:       domain.AlertCompetitorLowerPrice,
			Severity:        uc.severityForCompetitorGap(gapPct),
			ProductID:       product.ID,
			CompetitorName:  snapshot.CompetitorName,
			OurPrice:        &ourPrice,
			CompetitorPrice: &competitorPrice,
			Message: fmt.Sprintf("%s sells at %s, %.1f%% below our %s",
				snapshot.CompetitorName, competitorPrice.StringFixed(2), gapPct, ourPrice.StringFixed(2)),
		})
		if err != nil {
			return created, err
		}
		created += n
	}

	sum := decimal.Zero
	for _, snapshot := range latest {
		sum = sum.Add(snapshot.CompetitorPrice)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(latest)))).Round(2)

	headroomPct := percentBelow(avg, ourPrice)
	if headroomPct > uc.Policy.OpportunityGapPercent {
		n, err := uc.raise(ctx, &domain.PricingAlert{
			AlertType:       domain.AlertPricingOpportunity,
			Severity:        uc.severityForOpportunity(headroomPct),
			ProductID:       product.ID,
			OurPrice:        &ourPrice,
			CompetitorPrice: &avg,
			Message: fmt.Sprintf("our price %s is %.1f%% below the competitor average %s",
				ourPrice.StringFixed(2), headroomPct, avg.StringFixed(2)),
		})
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}

// raise creates the alert unless an identical unresolved one is already
// open. Resolved alerts are never reopened; a persisting condition gets a
// fresh row.
func (uc *DefaultAlertUsecase) raise(ctx context.Context, alert *domain.PricingAlert) (int, error) {
	open, err := uc.AlertRepo.HasOpen(ctx, alert.ProductID, alert.AlertType, alert.CompetitorName)
	if err != nil {
		return 0, err
	}
	if open {
		return 0, nil
	}

	if err := uc.AlertRepo.Create(ctx, alert); err != nil {
		return 0, err
	}
	if uc.Metrics != nil {
		uc.Metrics.AlertsCreatedTotal.WithLabelValues(string(alert.AlertType), string(alert.Severity)).Inc()
		uc.Metrics.OpenAlertsCount.Inc()
	}

	if uc.Publisher != nil {
		go func(event publisher.AlertRaisedEvent) {
			if err := uc.Publisher.PublishAlertRaised(uc.AlertTopic, event); err != nil {
				slog.Error("failed to publish alert event", "alert_id", event.AlertID, "error", err.Error())
			}
		}(publisher.AlertRaisedEvent{
			AlertID:   alert.ID,
			AlertType: string(alert.AlertType),
			Severity:  string(alert.Severity),
			ProductID: alert.ProductID,
			Message:   alert.Message,
			CreatedAt: alert.CreatedAt,
		})
	}
	return 1, nil
}

func (uc *DefaultAlertUsecase) Resolve(ctx context.Context, alertID, actor string) (*domain.PricingAlert, error) {
	if actor == "" {
		return nil, &domain.ValidationError{Field: "actor", Reason: "actor is required"}
	}
	resolved, err := uc.AlertRepo.Resolve(ctx, alertID, actor)
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.OpenAlertsCount.Dec()
	}
	return resolved, nil
}

func (uc *DefaultAlertUsecase) List(ctx context.Context, onlyOpen bool) ([]*domain.PricingAlert, error) {
	return uc.AlertRepo.List(ctx, onlyOpen)
}

func (uc *DefaultAlertUsecase) MarkRead(ctx context.Context, alertID string) error {
	return uc.AlertRepo.MarkRead(ctx, alertID)
}

// Severity ladders are ordered threshold lists so severity stays monotonic
// in magnitude whatever the configured values.

func (uc *DefaultAlertUsecase) severityForMarginDeficit(deficit float64) domain.AlertSeverity {
	switch {
	case deficit >= uc.Policy.CriticalMarginDeficit:
		return domain.SeverityCritical
	case deficit >= uc.Policy.HighMarginDeficit:
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

func (uc *DefaultAlertUsecase) severityForCompetitorGap(gapPct float64) domain.AlertSeverity {
	switch {
	case gapPct >= 5*uc.Policy.CompetitorGapPercent:
		return domain.SeverityHigh
	case gapPct >= 2*uc.Policy.CompetitorGapPercent:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func (uc *DefaultAlertUsecase) severityForOpportunity(headroomPct float64) domain.AlertSeverity {
	if headroomPct >= 2*uc.Policy.OpportunityGapPercent {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

// percentBelow is how far candidate sits below reference, in percent of
// reference; negative when candidate is above.
func percentBelow(reference, candidate decimal.Decimal) float64 {
	if !reference.IsPositive() {
		return 0
	}
	pct, _ := reference.Sub(candidate).Div(reference).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
