//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/flow"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestFlowErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"redirect", &flow.RedirectError{To: flow.StepOffers}, http.StatusConflict},
		{"wrapped redirect", fmt.Errorf("outer: %w", &flow.RedirectError{To: flow.StepDashboard}), http.StatusConflict},
		{"no offers", domain.ErrNoOffers, http.StatusBadRequest},
		{"unknown offer", fmt.Errorf("%w: 9", flow.ErrUnknownOffer), http.StatusBadRequest},
		{"empty message", flow.ErrEmptyMessage, http.StatusBadRequest},
		{"invalid config", fmt.Errorf("%w: difficulty", domain.ErrInvalidConfig), http.StatusBadRequest},
		{"unknown preset", flow.ErrUnknownPreset, http.StatusNotFound},
		{"preset not available", fmt.Errorf("%w: p1", flow.ErrPresetNotAvailable), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/x", nil)
			flowError(w, r, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRedirectBody(t *testing.T) {
	w := httptest.NewRecorder()
	Redirect(w, flow.StepOffers)

	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["redirect"] != "offers" || got["error"] != "redirect" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestDecodeRejectsOversizedBody(t *testing.T) {
	body := `{"content":"` + strings.Repeat("a", defaultMaxRequestBodySize) + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var v sendMessageRequest
	if decode(w, r, &v) {
		t.Fatal("expected decode to fail")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestStoreForWithoutIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := storeFor(w, r); ok {
		t.Fatal("expected no store")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
