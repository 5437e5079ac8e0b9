package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsHandler(origins []string) http.Handler {
	return CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSAllowedOrigin(t *testing.T) {
	h := corsHandler([]string{"https://admin.upcharify.com"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/hospital", nil)
	req.Header.Set("Origin", "https://admin.upcharify.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.upcharify.com" {
		t.Fatalf("expected origin echoed back, got %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	h := corsHandler([]string{"https://admin.upcharify.com"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/hospital", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself still passes through, got %d", rec.Code)
	}
}

func TestCORSWildcard(t *testing.T) {
	h := corsHandler([]string{"*"})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected wildcard echo, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := corsHandler([]string{"https://admin.upcharify.com"})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/super-admin/users", nil)
	req.Header.Set("Origin", "https://admin.upcharify.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight short-circuit, got %d", rec.Code)
	}
}
