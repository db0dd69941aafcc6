// Package api provides HTTP handlers for the SalesTwin API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/identity"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/ashureev/salestwin/internal/store"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20 // 1MB

// Handler provides common handler utilities.
type Handler struct {
	flow *flow.Controller
	repo store.Repository
}

// NewHandler creates a new Handler with common dependencies. repo may be
// nil when the archive is disabled.
func NewHandler(ctrl *flow.Controller, repo store.Repository) *Handler {
	return &Handler{flow: ctrl, repo: repo}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Redirect tells the client which step to go to instead.
func Redirect(w http.ResponseWriter, to flow.Step) {
	JSON(w, http.StatusConflict, map[string]string{"error": "redirect", "redirect": string(to)})
}

// storeFor returns the visitor's store, answering 401 when the identity
// middleware did not run.
func storeFor(w http.ResponseWriter, r *http.Request) (*session.Store, bool) {
	st := identity.StoreFromContext(r.Context())
	if st == nil {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return st, true
}

// decode reads a bounded JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// flowError maps flow and domain errors onto HTTP responses.
func flowError(w http.ResponseWriter, r *http.Request, err error) {
	if to, ok := flow.AsRedirect(err); ok {
		Redirect(w, to)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNoOffers),
		errors.Is(err, flow.ErrUnknownOffer),
		errors.Is(err, flow.ErrPresetNotAvailable),
		errors.Is(err, flow.ErrEmptyMessage),
		errors.Is(err, flow.ErrUnknownRole),
		errors.Is(err, domain.ErrInvalidConfig):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, flow.ErrUnknownPreset), errors.Is(err, flow.ErrNoUser):
		Error(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
