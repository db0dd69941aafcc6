package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ManagerHandler exposes the read-only administrative views.
type ManagerHandler struct {
	*Handler
}

// NewManagerHandler creates a manager handler.
func NewManagerHandler(base *Handler) *ManagerHandler {
	return &ManagerHandler{Handler: base}
}

// RegisterRoutes registers manager routes.
func (h *ManagerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/manager", func(r chi.Router) {
		r.Get("/offers", h.GetOffers)
		r.Get("/presets", h.GetPresets)
		r.Get("/analytics", h.GetAnalytics)
		r.Get("/sessions", h.ListSessions)
	})
}

// GetOffers lists every offer, inactive ones included.
func (h *ManagerHandler) GetOffers(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"offers": h.flow.ManagerOffers()})
}

// GetPresets lists every preset.
func (h *ManagerHandler) GetPresets(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"presets": h.flow.ManagerPresets()})
}

// GetAnalytics aggregates the archived sessions.
func (h *ManagerHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.flow.Analytics(r.Context())
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, stats)
}

// ListSessions returns archived sessions, optionally for one ?user_id.
func (h *ManagerHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		Error(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}
	var err error
	var sessions any
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		sessions, err = h.repo.ListUserSessions(r.Context(), userID)
	} else {
		sessions, err = h.repo.ListSessions(r.Context())
	}
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
