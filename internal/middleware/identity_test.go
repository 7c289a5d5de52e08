package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIdentity_RejectsAPIWithoutHeader(t *testing.T) {
	handler := Identity(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without identity")
	}))

	req := httptest.NewRequest("GET", "/api/threads", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestIdentity_StoresEmailOnContext(t *testing.T) {
	var got string
	handler := Identity(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserEmail(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/threads", nil)
	req.Header.Set(IdentityHeader, "user@example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got != "user@example.com" {
		t.Errorf("UserEmail = %q, want user@example.com", got)
	}
}

func TestIdentity_NonAPIPathsPassThrough(t *testing.T) {
	reached := false
	handler := Identity(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !reached {
		t.Error("non-API request blocked by identity middleware")
	}
}

func TestUserEmail_MissingReturnsEmpty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := UserEmail(req.Context()); got != "" {
		t.Errorf("UserEmail = %q, want empty", got)
	}
}
