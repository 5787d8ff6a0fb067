package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/papelio/papelio-pricing-service/internal/usecase/ingest"
	"github.com/papelio/papelio-pricing-service/internal/usecase/pricing"
	"github.com/papelio/papelio-pricing-service/internal/usecase/rollup"
)

// PricingHandler exposes rollup recompute, rule evaluation and competitor
// ingestion.
type PricingHandler struct {
	rollupUsecase rollup.Usecase
	engine        *pricing.Engine
	ingestUsecase ingest.Usecase
}

func NewPricingHandler(rollupUsecase rollup.Usecase, engine *pricing.Engine, ingestUsecase ingest.Usecase) *PricingHandler {
	return &PricingHandler{
		rollupUsecase: rollupUsecase,
		engine:        engine,
		ingestUsecase: ingestUsecase,
	}
}

func (h *PricingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/products/{id}/rollup", h.recomputeRollup)
	r.Post("/rollups/recompute", h.recomputeAll)
	r.Post("/pricing/evaluate", h.evaluate)
	r.Post("/competitors/ingest", h.ingest)
}

func (h *PricingHandler) recomputeRollup(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	result, err := h.rollupUsecase.Recompute(r.Context(), productID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *PricingHandler) recomputeAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.rollupUsecase.RecomputeAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *PricingHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var scope pricing.EvaluateScope
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&scope); err != nil {
			respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
			return
		}
	}

	report, err := h.engine.Evaluate(r.Context(), scope)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *PricingHandler) ingest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []string `json:"product_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if len(req.ProductIDs) == 0 {
		respond(w, http.StatusBadRequest, errorResponse{Error: "product_ids is required"})
		return
	}

	report, err := h.ingestUsecase.IngestCompetitorPrices(r.Context(), req.ProductIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}
