package api

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/identity"
	"github.com/go-chi/chi/v5"
)

// TrainingHandler exposes the sales rep training flow.
type TrainingHandler struct {
	*Handler
	limiter *RateLimiter
}

// NewTrainingHandler creates a training handler. limiter may be nil to
// disable throttling.
func NewTrainingHandler(base *Handler, limiter *RateLimiter) *TrainingHandler {
	return &TrainingHandler{Handler: base, limiter: limiter}
}

// RegisterRoutes registers training flow routes.
func (h *TrainingHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/labels", h.GetLabels)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.GetMe)
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard/repeat-last", h.RepeatLast)

		r.Get("/offers", h.GetOffers)
		r.Post("/offers/select", h.SelectOffers)
		r.Get("/offer-summary", h.GetOfferSummary)
		r.Get("/config-types", h.GetConfigTypes)
		r.Post("/config-types/preset", h.ApplyPreset)
		r.Get("/parameters", h.GetParameters)
		r.Post("/parameters", h.SetParameters)
		r.Get("/preparation", h.GetPreparation)

		r.Route("/conversation", func(r chi.Router) {
			r.With(h.throttle).Post("/start", h.StartConversation)
			r.Get("/", h.GetConversation)
			r.With(h.throttle).Post("/messages", h.SendMessage)
			r.Post("/end", h.EndConversation)
		})

		r.Get("/sessions/{id}", h.GetSummary)
		r.Post("/sessions/{id}/repeat", h.RepeatSession)
	})
}

// throttle rate-limits by device so rotating tab sessions does not help.
func (h *TrainingHandler) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && !h.limiter.Allow(identity.UserIDFromContext(r.Context())) {
			Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type nextResponse struct {
	Next flow.Step `json:"next"`
}

// GetLabels returns the display dictionaries.
func (h *TrainingHandler) GetLabels(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, catalog.AllLabels())
}

type loginRequest struct {
	Role domain.Role `json:"role"`
}

// Login signs in as a demo user.
func (h *TrainingHandler) Login(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	next, user, err := h.flow.Login(st, req.Role)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"next": next, "user": user})
}

// Logout signs the visitor out.
func (h *TrainingHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: h.flow.Logout(st)})
}

// GetMe returns the signed-in user, or null.
func (h *TrainingHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"user":       st.CurrentUser(),
		"device_id":  identity.UserIDFromContext(r.Context()),
		"session_id": identity.SessionIDFromContext(r.Context()),
	})
}

// GetDashboard returns the rep's recent sessions and the last one to resume.
func (h *TrainingHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, h.flow.Dashboard(st))
}

// RepeatLast restores the last session's configuration.
func (h *TrainingHandler) RepeatLast(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	next, err := h.flow.RepeatLast(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: next})
}

// GetOffers lists the active offers.
func (h *TrainingHandler) GetOffers(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"offers": h.flow.Offers()})
}

type selectOffersRequest struct {
	OfferIDs []string `json:"offerIds"`
}

// SelectOffers starts a new configuration from the chosen offers.
func (h *TrainingHandler) SelectOffers(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	var req selectOffersRequest
	if !decode(w, r, &req) {
		return
	}
	next, err := h.flow.SelectOffers(st, req.OfferIDs)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: next})
}

// GetOfferSummary returns the selected offers with their materials.
func (h *TrainingHandler) GetOfferSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.OfferSummary(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// GetConfigTypes lists the presets available for the selection.
func (h *TrainingHandler) GetConfigTypes(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.ConfigTypes(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

type applyPresetRequest struct {
	PresetID string `json:"presetId"`
}

// ApplyPreset configures the training from a preset of a selected offer.
func (h *TrainingHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	var req applyPresetRequest
	if !decode(w, r, &req) {
		return
	}
	next, err := h.flow.ApplyPreset(st, req.PresetID)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: next})
}

// GetParameters returns the custom configuration form.
func (h *TrainingHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.Parameters(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

type setParametersRequest struct {
	ClientType domain.ClientType `json:"clientType"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Goal       domain.Goal       `json:"goal"`
}

// SetParameters validates and stores a custom configuration.
func (h *TrainingHandler) SetParameters(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	var req setParametersRequest
	if !decode(w, r, &req) {
		return
	}
	next, err := h.flow.SetParameters(st, req.ClientType, req.Difficulty, req.Goal)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: next})
}

// GetPreparation describes the configured client before the conversation.
func (h *TrainingHandler) GetPreparation(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.Preparation(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// StartConversation registers the chat session and opens the conversation.
// A failed registration still answers 200, with a warning.
func (h *TrainingHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	res, err := h.flow.StartConversation(r.Context(), st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// GetConversation returns the live conversation with its insights.
func (h *TrainingHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.Conversation(st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage appends a rep turn. The client's reply shows up in the
// conversation after the reply delay.
func (h *TrainingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.flow.SendMessage(r.Context(), st, req.Content, nil)
	if err != nil {
		flowError(w, r, err)
		return
	}
	slog.Info("Rep message accepted",
		"user_id", identity.UserIDFromContext(r.Context()),
		"session_id", identity.SessionIDFromContext(r.Context()),
		"message_length", len(req.Content),
	)
	JSON(w, http.StatusAccepted, res)
}

// EndConversation scores and archives the conversation.
func (h *TrainingHandler) EndConversation(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	sess, err := h.flow.EndConversation(r.Context(), st)
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"next": flow.StepSummary, "sessionId": sess.ID})
}

// GetSummary returns an archived session with its feedback.
func (h *TrainingHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	view, err := h.flow.Summary(st, chi.URLParam(r, "id"))
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, view)
}

// RepeatSession restores the configuration of an archived session.
func (h *TrainingHandler) RepeatSession(w http.ResponseWriter, r *http.Request) {
	st, ok := storeFor(w, r)
	if !ok {
		return
	}
	next, err := h.flow.RepeatSession(st, chi.URLParam(r, "id"))
	if err != nil {
		flowError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, nextResponse{Next: next})
}
