package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/papelio/papelio-pricing-service/internal/domain"
	"github.com/papelio/papelio-pricing-service/internal/usecase/adjustment"
)

type AdjustmentHandler struct {
	adjustmentUsecase adjustment.Usecase
}

func NewAdjustmentHandler(adjustmentUsecase adjustment.Usecase) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentUsecase: adjustmentUsecase}
}

func (h *AdjustmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/adjustments", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/{id}/approve", h.approve)
		r.Post("/{id}/reject", h.reject)
	})
}

func (h *AdjustmentHandler) list(w http.ResponseWriter, r *http.Request) {
	status := domain.AdjustmentStatus(r.URL.Query().Get("status"))
	adjustments, err := h.adjustmentUsecase.List(r.Context(), status)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, adjustments)
}

func (h *AdjustmentHandler) get(w http.ResponseWriter, r *http.Request) {
	adj, err := h.adjustmentUsecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, adj)
}

func (h *AdjustmentHandler) approve(w http.ResponseWriter, r *http.Request) {
	applied, err := h.adjustmentUsecase.Approve(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, applied)
}

func (h *AdjustmentHandler) reject(w http.ResponseWriter, r *http.Request) {
	rejected, err := h.adjustmentUsecase.Reject(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, rejected)
}
