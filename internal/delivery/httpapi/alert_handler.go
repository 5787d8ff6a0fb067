package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/papelio/papelio-pricing-service/internal/usecase/alert"
)

type AlertHandler struct {
	alertUsecase alert.Usecase
}

func NewAlertHandler(alertUsecase alert.Usecase) *AlertHandler {
	return &AlertHandler{alertUsecase: alertUsecase}
}

func (h *AlertHandler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/detect", h.detect)
		r.Post("/{id}/resolve", h.resolve)
		r.Post("/{id}/read", h.markRead)
	})
}

func (h *AlertHandler) list(w http.ResponseWriter, r *http.Request) {
	onlyOpen := r.URL.Query().Get("open") != "false"
	alerts, err := h.alertUsecase.List(r.Context(), onlyOpen)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, alerts)
}

func (h *AlertHandler) detect(w http.ResponseWriter, r *http.Request) {
	report, err := h.alertUsecase.Detect(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

func (h *AlertHandler) resolve(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.alertUsecase.Resolve(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resolved)
}

func (h *AlertHandler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.alertUsecase.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"read": true})
}
