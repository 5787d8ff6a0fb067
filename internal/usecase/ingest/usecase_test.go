package ingest

import (
	"context"
	"errors"
	"testing"

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

type fakeCompetitorRepo struct {
	appended []*domain.CompetitorPrice
}

func (r *fakeCompetitorRepo) Append(ctx context.Context, prices []*domain.CompetitorPrice) error {
	r.appended = append(r.appended, prices...)
	return nil
}

func (r *fakeCompetitorRepo) LatestByProduct(ctx context.Context, productID string) ([]*domain.CompetitorPrice, error) {
	var latest []*domain.CompetitorPrice
	seen := map[string]bool{}
	for i := len(r.appended) - 1; i >= 0; i-- {
		row := r.appended[i]
		if row.ProductID != productID || seen[row.CompetitorName] {
			continue
		}
		seen[row.CompetitorName] = true
		latest = append(latest, row)
	}
	return latest, nil
}

type fakeSource struct {
	quotes map[string][]domain.CompetitorQuote
	err    error
	calls  int
}

func (s *fakeSource) FetchQuotes(ctx context.Context, ean string) ([]domain.CompetitorQuote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes[ean], nil
}

func dptr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestIngest_FreezesDeltaAtWriteTime(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", EAN: "3045670000000", PublicPriceInclTax: dptr(20.00)},
	}}
	competitors := &fakeCompetitorRepo{}
	source := &fakeSource{quotes: map[string][]domain.CompetitorQuote{
		"3045670000000": {
			{CompetitorName: "bureau-vallee", Price: decimal.NewFromFloat(19.00), URL: "https://bv.example/p/1"},
		},
	}}
	uc := NewDefaultIngestUsecase(source, products, competitors, nil)

	report, err := uc.IngestCompetitorPrices(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Scraped != 1 {
		t.Fatalf("expected one snapshot, got %d", report.Scraped)
	}

	row := competitors.appended[0]
	if row.PriceDifference == nil || !row.PriceDifference.Equal(decimal.NewFromFloat(-1.00)) {
		t.Errorf("expected difference -1.00, got %v", row.PriceDifference)
	}
	if row.PriceDifferencePercent == nil || *row.PriceDifferencePercent != -5.00 {
		t.Errorf("expected difference -5%%, got %v", row.PriceDifferencePercent)
	}

	// a later price move must not touch the stored snapshot
	products.products["p1"].PublicPriceInclTax = dptr(15.00)
	latest, _ := competitors.LatestByProduct(context.Background(), "p1")
	if !latest[0].PriceDifference.Equal(decimal.NewFromFloat(-1.00)) {
		t.Errorf("snapshot delta was recomputed: %v", latest[0].PriceDifference)
	}
}

func TestIngest_NoPublicPriceLeavesDeltaNil(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", EAN: "3045670000000"},
	}}
	competitors := &fakeCompetitorRepo{}
	source := &fakeSource{quotes: map[string][]domain.CompetitorQuote{
		"3045670000000": {{CompetitorName: "cultura", Price: decimal.NewFromFloat(9.50)}},
	}}
	uc := NewDefaultIngestUsecase(source, products, competitors, nil)

	if _, err := uc.IngestCompetitorPrices(context.Background(), []string{"p1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := competitors.appended[0]
	if row.PriceDifference != nil || row.PriceDifferencePercent != nil {
		t.Errorf("expected nil deltas without a public price, got %v / %v", row.PriceDifference, row.PriceDifferencePercent)
	}
}

func TestIngest_ProductWithoutEANSkipped(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1"},
	}}
	source := &fakeSource{}
	uc := NewDefaultIngestUsecase(source, products, &fakeCompetitorRepo{}, nil)

	report, err := uc.IngestCompetitorPrices(context.Background(), []string{"p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Scraped != 0 {
		t.Errorf("expected nothing scraped, got %d", report.Scraped)
	}
	if source.calls != 0 {
		t.Errorf("source must not be called without an EAN, got %d calls", source.calls)
	}
}

func TestIngest_SourceFailureDoesNotAbortBatch(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p-broken": {ID: "p-broken", EAN: "1111111111111"},
		"p-ok":     {ID: "p-ok", EAN: "2222222222222"},
	}}
	competitors := &fakeCompetitorRepo{}

	// first product's fetch fails, the second succeeds
	failing := &fakeSource{err: errors.New("upstream timeout")}
	uc := NewDefaultIngestUsecase(failing, products, competitors, nil)
	report, err := uc.IngestCompetitorPrices(context.Background(), []string{"p-broken"})
	if err != nil {
		t.Fatalf("per-product failure must not surface: %v", err)
	}
	if report.Scraped != 0 {
		t.Errorf("expected nothing scraped, got %d", report.Scraped)
	}

	ok := &fakeSource{quotes: map[string][]domain.CompetitorQuote{
		"2222222222222": {{CompetitorName: "fnac", Price: decimal.NewFromFloat(4.20)}},
	}}
	uc = NewDefaultIngestUsecase(ok, products, competitors, nil)
	report, err = uc.IngestCompetitorPrices(context.Background(), []string{"p-ok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Scraped != 1 {
		t.Errorf("expected one snapshot, got %d", report.Scraped)
	}
}

func TestIngest_AppendOnlyHistoryGrows(t *testing.T) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", EAN: "3045670000000", PublicPriceInclTax: dptr(20.00)},
	}}
	competitors := &fakeCompetitorRepo{}
	source := &fakeSource{quotes: map[string][]domain.CompetitorQuote{
		"3045670000000": {{CompetitorName: "bureau-vallee", Price: decimal.NewFromFloat(19.00)}},
	}}
	uc := NewDefaultIngestUsecase(source, products, competitors, nil)

	for i := 0; i < 3; i++ {
		if _, err := uc.IngestCompetitorPrices(context.Background(), []string{"p1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(competitors.appended) != 3 {
		t.Errorf("expected three history rows, got %d", len(competitors.appended))
	}
	latest, _ := competitors.LatestByProduct(context.Background(), "p1")
	if len(latest) != 1 {
		t.Errorf("expected one latest row per competitor, got %d", len(latest))
	}
}

func TestIngest_Cancellable(t *testing.T) {
	uc := NewDefaultIngestUsecase(&fakeSource{}, &fakeProductRepo{products: map[string]*domain.Product{}}, &fakeCompetitorRepo{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := uc.IngestCompetitorPrices(ctx, []string{"p1"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
