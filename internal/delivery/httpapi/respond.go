package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/papelio/papelio-pricing-service/internal/domain"
)

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the domain error taxonomy onto HTTP statuses. Conflict
// and validation bodies keep the full message so the caller sees why the
// transition or rule was refused.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case domain.IsConflict(err):
		status = http.StatusConflict
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable):
		status = http.StatusUnprocessableEntity
	}
	respond(w, status, errorResponse{Error: err.Error()})
}

// actorFrom reads the authenticated actor identity the gateway injects.
func actorFrom(r *http.Request) string {
	return r.Header.Get("X-Actor-ID")
}
