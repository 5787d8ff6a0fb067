package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PricingMetrics groups the prometheus collectors for the pricing pipeline.
type PricingMetrics struct {
	RollupsRecomputedTotal prometheus.CounterVec
	RollupErrorsTotal      prometheus.Counter

	AdjustmentsProposedTotal prometheus.CounterVec
	AdjustmentsAppliedTotal  prometheus.Counter
	AdjustmentsRejectedTotal prometheus.Counter
	EvaluationSkippedTotal   prometheus.Counter
	EvaluationErrorsTotal    prometheus.Counter

	AlertsCreatedTotal prometheus.CounterVec
	OpenAlertsCount    prometheus.Gauge

	CompetitorPricesScrapedTotal prometheus.Counter
}

func NewPricingMetrics() *PricingMetrics {
	return &PricingMetrics{
		RollupsRecomputedTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_rollups_recomputed_total",
			Help: "Rollup recomputations by price source",
		}, []string{"source"}),
		RollupErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_rollup_errors_total",
			Help: "Rollup recomputations that failed",
		}),
		AdjustmentsProposedTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_adjustments_proposed_total",
			Help: "Price adjustments emitted by the rule engine, by strategy",
		}, []string{"strategy"}),
		AdjustmentsAppliedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_adjustments_applied_total",
			Help: "Adjustments approved and applied to products",
		}),
		AdjustmentsRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_adjustments_rejected_total",
			Help: "Adjustments rejected by a reviewer",
		}),
		EvaluationSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_evaluation_skipped_total",
			Help: "Products skipped during rule evaluation (no rule, no data, negligible change)",
		}),
		EvaluationErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_evaluation_errors_total",
			Help: "Products that failed during rule evaluation",
		}),
		AlertsCreatedTotal: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pricing_alerts_created_total",
			Help: "Pricing alerts raised, by type and severity",
		}, []string{"type", "severity"}),
		OpenAlertsCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pricing_open_alerts",
			Help: "Currently unresolved pricing alerts",
		}),
		CompetitorPricesScrapedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pricing_competitor_prices_scraped_total",
			Help: "Competitor price snapshots appended",
		}),
	}
}
