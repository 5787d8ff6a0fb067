package competitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// quoteResponse is the aggregator API payload: all known competitor listings
// for one EAN.
type quoteResponse struct {
	EAN    string `json:"ean"`
	Quotes []struct {
		Merchant string  `json:"merchant"`
		Price    float64 `json:"price"`
		URL      string  `json:"url"`
	} `json:"quotes"`
}

// HTTPSource pulls competitor quotes from the price-aggregator API. A shared
// rate limiter keeps batch ingestion under the aggregator's quota.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPSource(cfg config.CompetitorAPI) *HTTPSource {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &HTTPSource{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *HTTPSource) FetchQuotes(ctx context.Context, ean string) ([]domain.CompetitorQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/quotes?ean=%s", s.baseURL, ean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("competitor api returned status %d for ean %s", resp.StatusCode, ean)
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode competitor quotes: %w", err)
	}

	quotes := make([]domain.CompetitorQuote, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		if q.Price <= 0 {
			continue
		}
		quotes = append(quotes, domain.CompetitorQuote{
			CompetitorName: q.Merchant,
			Price:          decimal.NewFromFloat(q.Price).Round(2),
			URL:            q.URL,
		})
	}
	return quotes, nil
}
