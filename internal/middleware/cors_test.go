package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(method, origin string, allowed []string) *httptest.ResponseRecorder {
	h := CORS(allowed, "X-SalesTwin-Session-ID")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(method, "/api/offers", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_ExplicitOriginGetsCredentials(t *testing.T) {
	rec := corsRequest(http.MethodGet, "https://app.example.com", []string{"https://app.example.com"})

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials for explicit origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-SalesTwin-Session-ID" {
		t.Fatalf("unexpected allow-headers: %q", got)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected request to reach handler, got %d", rec.Code)
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	rec := corsRequest(http.MethodGet, "https://evil.example.com", []string{"*"})

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://evil.example.com" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("wildcard must not allow credentials, got %q", got)
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	rec := corsRequest(http.MethodGet, "https://other.example.com", []string{"https://app.example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	rec := corsRequest(http.MethodOptions, "https://app.example.com", []string{"https://app.example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
}
