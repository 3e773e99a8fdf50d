package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/naby001/admin-panel/internal/model"
)

// signIn returns a middleware that writes an identity into the session before
// the guard under test runs.
func signIn(sm *scs.SessionManager, email, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sm.Put(r.Context(), SessionKeyEmail, email)
			sm.Put(r.Context(), SessionKeyRole, role)
			next.ServeHTTP(w, r)
		})
	}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAPISessionRejectsAnonymous(t *testing.T) {
	sm := scs.New()
	called := false
	handler := sm.LoadAndSave(RequireAPISession(sm)(okHandler(&called)))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("protected handler ran for an anonymous request")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("error body = %q, want %q", body["error"], "Unauthorized")
	}
}

func TestRequireAPISessionAllowsSignedIn(t *testing.T) {
	sm := scs.New()
	called := false
	handler := sm.LoadAndSave(
		signIn(sm, "organizer@example.edu", model.RoleUser)(
			RequireAPISession(sm)(okHandler(&called))))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Error("protected handler did not run for a signed-in request")
	}
}

func TestRequirePageSessionRedirects(t *testing.T) {
	sm := scs.New()
	called := false
	handler := sm.LoadAndSave(RequirePageSession(sm)(okHandler(&called)))

	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Errorf("Location = %q, want /login", got)
	}
	if called {
		t.Error("protected handler ran for an anonymous request")
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		role         string
		wantStatus   int
		wantLocation string
		wantCalled   bool
	}{
		{"anonymous", "", "", http.StatusSeeOther, "/login", false},
		{"plain user", "user@example.edu", model.RoleUser, http.StatusSeeOther, "/forbidden", false},
		{"admin", "admin@example.edu", model.RoleAdmin, http.StatusOK, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := scs.New()
			called := false

			inner := RequireAdmin(sm)(okHandler(&called))
			if tt.email != "" {
				inner = signIn(sm, tt.email, tt.role)(inner)
			}
			handler := sm.LoadAndSave(inner)

			req := httptest.NewRequest(http.MethodGet, "/audit", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := rec.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestSignedInNoSession(t *testing.T) {
	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	if _, ok := SignedIn(sm, req); ok {
		t.Error("SignedIn() = true for an empty session")
	}
}
