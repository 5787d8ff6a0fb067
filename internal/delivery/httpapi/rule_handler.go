package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/shopspring/decimal"
)

type RuleHandler struct {
	ruleRepo domain.PricingRuleRepository
}

func NewRuleHandler(ruleRepo domain.PricingRuleRepository) *RuleHandler {
	return &RuleHandler{ruleRepo: ruleRepo}
}

func (h *RuleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
	})
}

type ruleRequest struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`

	Category    string   `json:"category,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty"`
	SupplierIDs []string `json:"supplier_ids,omitempty"`

	MinMarginPercent        *float64 `json:"min_margin_percent,omitempty"`
	MaxMarginPercent        *float64 `json:"max_margin_percent,omitempty"`
	TargetMarginPercent     float64  `json:"target_margin_percent,omitempty"`
	CompetitorOffsetPercent *float64 `json:"competitor_offset_percent,omitempty"`
	CompetitorOffsetFixed   *float64 `json:"competitor_offset_fixed,omitempty"`
	MinCompetitorCount      int      `json:"min_competitor_count,omitempty"`
	MinPriceInclTax         *float64 `json:"min_price_incl_tax,omitempty"`
	MaxPriceInclTax         *float64 `json:"max_price_incl_tax,omitempty"`
	MaxPriceChangePercent   *float64 `json:"max_price_change_percent,omitempty"`

	RequireApproval bool `json:"require_approval"`
	Priority        int  `json:"priority"`
	IsActive        bool `json:"is_active"`
}

func (req *ruleRequest) toDomain() *domain.PricingRule {
	return &domain.PricingRule{
		Name:                    req.Name,
		Strategy:                domain.PricingStrategy(req.Strategy),
		Category:                req.Category,
		ProductIDs:              req.ProductIDs,
		SupplierIDs:             req.SupplierIDs,
		MinMarginPercent:        req.MinMarginPercent,
		MaxMarginPercent:        req.MaxMarginPercent,
		TargetMarginPercent:     req.TargetMarginPercent,
		CompetitorOffsetPercent: req.CompetitorOffsetPercent,
		CompetitorOffsetFixed:   toDecimal(req.CompetitorOffsetFixed),
		MinCompetitorCount:      req.MinCompetitorCount,
		MinPriceInclTax:         toDecimal(req.MinPriceInclTax),
		MaxPriceInclTax:         toDecimal(req.MaxPriceInclTax),
		MaxPriceChangePercent:   req.MaxPriceChangePercent,
		RequireApproval:         req.RequireApproval,
		Priority:                req.Priority,
		IsActive:                req.IsActive,
	}
}

func (h *RuleHandler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleRepo.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rules)
}

func (h *RuleHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	rule := req.toDomain()
	if err := h.ruleRepo.Create(r.Context(), rule); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, rule)
}

func (h *RuleHandler) get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.ruleRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rule)
}

func (h *RuleHandler) update(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	rule := req.toDomain()
	rule.ID = chi.URLParam(r, "id")
	if err := h.ruleRepo.Update(r.Context(), rule); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rule)
}

func toDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v).Round(2)
	return &d
}
