package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/V4T54L/shopmetrics/internal/pkg/token"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func authProbe(t *testing.T) (http.Handler, *uuid.UUID) {
	t.Helper()
	var captured uuid.UUID
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := AdminIDFromContext(r.Context())
		if !ok {
			t.Error("expected admin id in context")
		}
		captured = id
		w.WriteHeader(http.StatusOK)
	})
	return Auth(testSecret, logger)(next), &captured
}

func TestAuth_BearerToken(t *testing.T) {
	adminID := uuid.New()
	tok, err := token.Generate(adminID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler, captured := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics/overview", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *captured != adminID {
		t.Errorf("expected admin id %s, got %s", adminID, *captured)
	}
}

func TestAuth_Cookie(t *testing.T) {
	adminID := uuid.New()
	tok, err := token.Generate(adminID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler, captured := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics/overview", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tok})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *captured != adminID {
		t.Errorf("expected admin id %s, got %s", adminID, *captured)
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired, err := token.Generate(uuid.New(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	foreign, err := token.Generate(uuid.New(), "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name      string
		authorize func(r *http.Request)
	}{
		{"No Credentials", func(r *http.Request) {}},
		{"Malformed Header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }},
		{"Expired Token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }},
		{"Wrong Secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) }},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	})
	handler := Auth(testSecret, logger)(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics/overview", nil)
			tt.authorize(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
