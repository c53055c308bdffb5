package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quangdle/anistream/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthWithoutToken(t *testing.T) {
	mw := NewMiddleware(nil)
	handler := mw.RequireAuth(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Unauthorized" {
		t.Fatalf("message = %q, want Unauthorized", body.Message)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		id   *Identity
		want int
	}{
		{"no identity", nil, http.StatusForbidden},
		{"regular user", &Identity{UserID: 1, Role: models.RoleUser}, http.StatusForbidden},
		{"manager", &Identity{UserID: 2, Role: models.RoleManager}, http.StatusForbidden},
		{"admin", &Identity{UserID: 3, Role: models.RoleAdmin}, http.StatusOK},
	}

	mw := NewMiddleware(nil)
	handler := mw.RequireAdmin(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.id != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.id))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc123")
		if got := extractToken(req); got != "abc123" {
			t.Fatalf("got %q, want abc123", got)
		}
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		if got := extractToken(req); got != "cookie-token" {
			t.Fatalf("got %q, want cookie-token", got)
		}
	})

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
		if got := extractToken(req); got != "header-token" {
			t.Fatalf("got %q, want header-token", got)
		}
	})

	t.Run("none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if got := extractToken(req); got != "" {
			t.Fatalf("got %q, want empty", got)
		}
	})
}
