package alert

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (r *fakeProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range r.products {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeProductRepo) UpdateRollup(ctx context.Context, productID string, rollup *domain.RollupResult) error {
	return nil
}

type fakeOfferRepo struct {
	byProduct map[string][]*domain.SupplierOffer
}

func (r *fakeOfferRepo) SaveOffer(ctx context.Context, offer *domain.SupplierOffer) error {
	return nil
}

func (r *fakeOfferRepo) GetActiveByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error) {
	return r.byProduct[productID], nil
}

func (r *fakeOfferRepo) GetActiveByEAN(ctx context.Context, ean string) ([]*domain.SupplierOffer, error) {
	return nil, nil
}

func (r *fakeOfferRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.SupplierOffer, error) {
	return r.byProduct[productID], nil
}

type fakeCompetitorRepo struct {
	latest map[string][]*domain.CompetitorPrice
}

func (r *fakeCompetitorRepo) Append(ctx context.Context, prices []*domain.CompetitorPrice) error {
	return nil
}

func (r *fakeCompetitorRepo) LatestByProduct(ctx context.Context, productID string) ([]*domain.CompetitorPrice, error) {
	return r.latest[productID], nil
}

type fakeAlertRepo struct {
	rows map[string]*domain.PricingAlert
	seq  int
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{rows: map[string]*domain.PricingAlert{}}
}

func (r *fakeAlertRepo) Create(ctx context.Context, alert *domain.PricingAlert) error {
	if alert.ID == "" {
		r.seq++
		alert.ID = fmt.Sprintf("alert-%d", r.seq)
	}
	alert.CreatedAt = time.Now()
	copied := *alert
	r.rows[alert.ID] = &copied
	return nil
}

func (r *fakeAlertRepo) GetByID(ctx context.Context, alertID string) (*domain.PricingAlert, error) {
	row, ok := r.rows[alertID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeAlertRepo) List(ctx context.Context, onlyOpen bool) ([]*domain.PricingAlert, error) {
	var out []*domain.PricingAlert
	for _, row := range r.rows {
		if onlyOpen && row.IsResolved {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAlertRepo) HasOpen(ctx context.Context, productID string, alertType domain.AlertType, competitorName string) (bool, error) {
	for _, row := range r.rows {
		if !row.IsResolved && row.ProductID == productID &&
			row.AlertType == alertType && row.CompetitorName == competitorName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) Resolve(ctx context.Context, alertID, actor string) (*domain.PricingAlert, error) {
	row, ok := r.rows[alertID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if row.IsResolved {
		return nil, &domain.ConflictError{
			Entity:    "pricing_alert",
			ID:        alertID,
			Current:   "resolved",
			Requested: "resolved",
		}
	}
	now := time.Now()
	row.IsResolved = true
	row.ResolvedBy = actor
	row.ResolvedAt = &now
	copied := *row
	return &copied, nil
}

func (r *fakeAlertRepo) MarkRead(ctx context.Context, alertID string) error {
	row, ok := r.rows[alertID]
	if !ok {
		return domain.ErrNotFound
	}
	row.IsRead = true
	return nil
}

func dptr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func testPolicy() config.AlertPolicy {
	return config.AlertPolicy{
		MinMarginPercent:      20,
		CriticalMarginDeficit: 15,
		HighMarginDeficit:     5,
		CompetitorGapPercent:  2,
		OpportunityGapPercent: 5,
	}
}

func newAlertFixture(products map[string]*domain.Product, offers map[string][]*domain.SupplierOffer,
	latest map[string][]*domain.CompetitorPrice) (*DefaultAlertUsecase, *fakeAlertRepo) {

	repo := newFakeAlertRepo()
	uc := NewDefaultAlertUsecase(
		&fakeProductRepo{products: products},
		&fakeOfferRepo{byProduct: offers},
		&fakeCompetitorRepo{latest: latest},
		repo,
		testPolicy(),
		nil, nil, "",
	)
	return uc, repo
}

func snapshot(productID, competitor string, price float64) *domain.CompetitorPrice {
	return &domain.CompetitorPrice{
		ProductID:       productID,
		CompetitorName:  competitor,
		CompetitorPrice: decimal.NewFromFloat(price),
		ScrapedAt:       time.Now(),
	}
}

func alertsOfType(t *testing.T, repo *fakeAlertRepo, alertType domain.AlertType) []*domain.PricingAlert {
	t.Helper()
	all, _ := repo.List(context.Background(), false)
	var out []*domain.PricingAlert
	for _, a := range all {
		if a.AlertType == alertType {
			out = append(out, a)
		}
	}
	return out
}

func TestDetect_ProductWithoutPriceRaisesRecommendation(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{"p1": {ID: "p1"}},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)

	report, err := uc.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("expected one alert, got %d", report.Created)
	}

	alerts := alertsOfType(t, repo, domain.AlertPriceChangeRecommended)
	if len(alerts) != 1 {
		t.Fatalf("expected one recommendation, got %d", len(alerts))
	}
	if alerts[0].Severity != domain.SeverityHigh {
		t.Errorf("expected high severity, got %q", alerts[0].Severity)
	}
}

func TestDetect_MarginSeverityScalesWithDeficit(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		severity domain.AlertSeverity
	}{
		// cost incl tax is 10.00 in all cases, margin floor 20%
		{"slightly under", 12.00, domain.SeverityMedium},   // margin 16.7%, deficit 3.3
		{"well under", 11.20, domain.SeverityHigh},         // margin 10.7%, deficit 9.3
		{"under water", 10.40, domain.SeverityCritical},    // margin 3.8%, deficit 16.2
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, repo := newAlertFixture(
				map[string]*domain.Product{
					"p1": {ID: "p1", TaxRate: 0, CostPrice: dptr(10.00), PublicPriceInclTax: dptr(tc.price)},
				},
				map[string][]*domain.SupplierOffer{},
				map[string][]*domain.CompetitorPrice{},
			)

			if _, err := uc.Detect(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			alerts := alertsOfType(t, repo, domain.AlertMarginBelowThreshold)
			if len(alerts) != 1 {
				t.Fatalf("expected one margin alert, got %d", len(alerts))
			}
			if alerts[0].Severity != tc.severity {
				t.Errorf("expected %q, got %q", tc.severity, alerts[0].Severity)
			}
		})
	}
}

func TestDetect_HealthyMarginRaisesNothing(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{
			"p1": {ID: "p1", TaxRate: 0, CostPrice: dptr(10.00), PublicPriceInclTax: dptr(15.00)},
		},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)

	report, err := uc.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 0 {
		all, _ := repo.List(context.Background(), false)
		t.Fatalf("expected no alerts, got %+v", all)
	}
}

func TestDetect_CompetitorUndercutPerCompetitor(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{
			"p1": {ID: "p1", TaxRate: 0, CostPrice: dptr(10.00), PublicPriceInclTax: dptr(20.00)},
		},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{
			"p1": {
				snapshot("p1", "bureau-vallee", 19.00), // 5.0% below, severity medium (>= 2x gap)
				snapshot("p1", "cultura", 17.50),       // 12.5% below, severity high (>= 5x gap)
				snapshot("p1", "fnac", 19.90),          // 0.5% below, under threshold
			},
		},
	)

	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alerts := alertsOfType(t, repo, domain.AlertCompetitorLowerPrice)
	if len(alerts) != 2 {
		t.Fatalf("expected two undercut alerts, got %d", len(alerts))
	}
	severities := map[string]domain.AlertSeverity{}
	for _, a := range alerts {
		severities[a.CompetitorName] = a.Severity
	}
	if severities["bureau-vallee"] != domain.SeverityMedium {
		t.Errorf("expected medium for bureau-vallee, got %q", severities["bureau-vallee"])
	}
	if severities["cultura"] != domain.SeverityHigh {
		t.Errorf("expected high for cultura, got %q", severities["cultura"])
	}
}

func TestDetect_OpportunityWhenPricedBelowAverage(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{
			"p1": {ID: "p1", TaxRate: 0, CostPrice: dptr(5.00), PublicPriceInclTax: dptr(10.00)},
		},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{
			"p1": {
				snapshot("p1", "bureau-vallee", 12.00),
				snapshot("p1", "cultura", 12.00),
			},
		},
	)

	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// our 10.00 sits 16.7% below the 12.00 average, twice the 5% threshold
	alerts := alertsOfType(t, repo, domain.AlertPricingOpportunity)
	if len(alerts) != 1 {
		t.Fatalf("expected one opportunity alert, got %d", len(alerts))
	}
	if alerts[0].Severity != domain.SeverityHigh {
		t.Errorf("expected high severity, got %q", alerts[0].Severity)
	}
}

func TestDetect_OpenAlertNotDuplicated(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{"p1": {ID: "p1"}},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)

	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report, err := uc.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 0 {
		t.Errorf("second scan must not duplicate the open alert, created %d", report.Created)
	}
	all, _ := repo.List(context.Background(), false)
	if len(all) != 1 {
		t.Errorf("expected one row, got %d", len(all))
	}
}

func TestDetect_ResolvedAlertGetsFreshRowNotReopened(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{"p1": {ID: "p1"}},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)

	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := repo.List(context.Background(), true)
	if len(first) != 1 {
		t.Fatalf("expected one open alert, got %d", len(first))
	}
	if _, err := uc.Resolve(context.Background(), first[0].ID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// condition persists, next scan raises a new row
	report, err := uc.Detect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 1 {
		t.Errorf("expected a fresh alert, created %d", report.Created)
	}

	all, _ := repo.List(context.Background(), false)
	if len(all) != 2 {
		t.Errorf("expected two rows in history, got %d", len(all))
	}
	resolved, _ := repo.GetByID(context.Background(), first[0].ID)
	if !resolved.IsResolved || resolved.ResolvedBy != "alice" || resolved.ResolvedAt == nil {
		t.Errorf("original alert must stay resolved: %+v", resolved)
	}
}

func TestResolve_SecondResolveConflicts(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{"p1": {ID: "p1"}},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)
	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, _ := repo.List(context.Background(), true)

	if _, err := uc.Resolve(context.Background(), open[0].ID, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := uc.Resolve(context.Background(), open[0].ID, "bob")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on double resolve, got %v", err)
	}
}

func TestResolve_EmptyActorRejected(t *testing.T) {
	uc, _ := newAlertFixture(map[string]*domain.Product{}, map[string][]*domain.SupplierOffer{}, map[string][]*domain.CompetitorPrice{})

	_, err := uc.Resolve(context.Background(), "a1", "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkRead_DoesNotCloseAlert(t *testing.T) {
	uc, repo := newAlertFixture(
		map[string]*domain.Product{"p1": {ID: "p1"}},
		map[string][]*domain.SupplierOffer{},
		map[string][]*domain.CompetitorPrice{},
	)
	if _, err := uc.Detect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, _ := repo.List(context.Background(), true)

	if err := uc.MarkRead(context.Background(), open[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, _ := repo.GetByID(context.Background(), open[0].ID)
	if !row.IsRead {
		t.Error("expected read flag set")
	}
	if row.IsResolved {
		t.Error("marking read must not resolve")
	}
}
