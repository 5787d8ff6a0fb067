package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/usecase/offer"
)

// OfferHandler receives supplier feed updates and lists offer history.
type OfferHandler struct {
	offerUsecase offer.Usecase
}

func NewOfferHandler(offerUsecase offer.Usecase) *OfferHandler {
	return &OfferHandler{offerUsecase: offerUsecase}
}

func (h *OfferHandler) RegisterRoutes(r chi.Router) {
	r.Put("/products/{id}/offers/{supplier}", h.upsert)
	r.Get("/products/{id}/offers", h.list)
}

type offerRequest struct {
	SupplierProductID    string    `json:"supplier_product_id,omitempty"`
	ListPriceInclTax     *float64  `json:"list_price_incl_tax,omitempty"`
	PurchasePriceExclTax *float64  `json:"purchase_price_excl_tax,omitempty"`
	TaxRate              float64   `json:"tax_rate"`
	StockQty             int       `json:"stock_qty"`
	LeadTimeDays         int       `json:"lead_time_days,omitempty"`
	MinOrderQty          int       `json:"min_order_qty,omitempty"`
	IsActive             bool      `json:"is_active"`
	LastSeenAt           time.Time `json:"last_seen_at,omitempty"`
}

func (h *OfferHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	rollup, err := h.offerUsecase.Upsert(r.Context(), &domain.SupplierOffer{
		Supplier:             domain.Supplier(chi.URLParam(r, "supplier")),
		ProductID:            chi.URLParam(r, "id"),
		SupplierProductID:    req.SupplierProductID,
		ListPriceInclTax:     toDecimal(req.ListPriceInclTax),
		PurchasePriceExclTax: toDecimal(req.PurchasePriceExclTax),
		TaxRate:              req.TaxRate,
		StockQty:             req.StockQty,
		LeadTimeDays:         req.LeadTimeDays,
		MinOrderQty:          req.MinOrderQty,
		IsActive:             req.IsActive,
		LastSeenAt:           req.LastSeenAt,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rollup)
}

func (h *OfferHandler) list(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerUsecase.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, offers)
}
