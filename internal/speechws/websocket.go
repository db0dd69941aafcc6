package speechws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/identity"
	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// HandlerOptions configures the speech socket.
type HandlerOptions struct {
	AllowedOrigins   []string
	IsDev            bool
	Lang             string
	SilenceThreshold time.Duration
}

// WebSocketHandler serves GET /ws/speech.
type WebSocketHandler struct {
	flow *flow.Controller
	sm   *SessionManager
	opts HandlerOptions
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(ctrl *flow.Controller, sm *SessionManager, opts HandlerOptions) *WebSocketHandler {
	return &WebSocketHandler{flow: ctrl, sm: sm, opts: opts}
}

// ServeHTTP implements http.Handler for WebSocket upgrade. The query
// parameters stt=0 and tts=0 declare a missing browser engine.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	st := identity.StoreFromContext(r.Context())
	if st == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	slog.Info("Speech socket request", "user_id", userID, "session_id", sessionID, "ip", identity.IPFromRequest(r))

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.sm.Register(userID, sessionID, ws)
	defer h.sm.Unregister(userID, sessionID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := func(f Frame) {
		if err := writeJSON(ctx, ws, f); err != nil && ctx.Err() == nil {
			slog.Debug("WebSocket write error", "error", err, "user_id", userID)
		}
	}

	q := r.URL.Query()
	bridge := NewBridge(ctx, h.flow, st, send, BridgeOptions{
		Recognition:      q.Get("stt") != "0",
		Synthesis:        q.Get("tts") != "0",
		Lang:             h.opts.Lang,
		SilenceThreshold: h.opts.SilenceThreshold,
	})
	defer bridge.Close()
	bridge.SendState()

	h.readLoop(ctx, ws, bridge, userID)
	slog.Info("Speech session ended", "user_id", userID, "session_id", sessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.opts.IsDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.opts.AllowedOrigins, "*") || slices.Contains(h.opts.AllowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, bridge *Bridge, userID string) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var f Inbound
		if err := json.Unmarshal(message, &f); err != nil {
			slog.Debug("Malformed speech frame", "error", err, "user_id", userID)
			continue
		}
		bridge.Handle(f)
	}
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(ctx, websocket.MessageText, data)
}
