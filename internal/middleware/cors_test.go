package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/food-items", nil)
	rec := httptest.NewRecorder()
	CORS("")(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "apikey") {
		t.Errorf("allow headers = %q", got)
	}
}

func TestCORSPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/food-items", nil)
	rec := httptest.NewRecorder()
	CORS("https://larder.example")(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://larder.example" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestRequireAPIKey(t *testing.T) {
	h := RequireAPIKey("anon")(okHandler())

	tests := []struct {
		key  string
		want int
		body string
	}{
		{"", http.StatusUnauthorized, "Missing apikey"},
		{"wrong", http.StatusUnauthorized, "Invalid apikey"},
		{"anon", http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.key != "" {
			req.Header.Set("apikey", tt.key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("key %q: status = %d, want %d", tt.key, rec.Code, tt.want)
		}
		if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("key %q: body = %q", tt.key, rec.Body.String())
		}
	}
}

func TestRequireAPIKeyDisabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	RequireAPIKey("")(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
