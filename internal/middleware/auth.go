// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request hardening.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/naby001/admin-panel/internal/model"
)

// Session keys for the signed-in identity.
const (
	SessionKeyEmail = "email"
	SessionKeyRole  = "role"
)

// Identity is the signed-in organizer resolved from the session.
type Identity struct {
	Email string
	Role  string
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == model.RoleAdmin
}

// SignedIn resolves the identity from the request's session.
// Returns false when no valid session exists.
func SignedIn(sm *scs.SessionManager, r *http.Request) (Identity, bool) {
	email := sm.GetString(r.Context(), SessionKeyEmail)
	if email == "" {
		return Identity{}, false
	}
	return Identity{
		Email: email,
		Role:  sm.GetString(r.Context(), SessionKeyRole),
	}, true
}

// RequireAPISession creates middleware guarding the JSON endpoints. A request
// without a valid session is rejected immediately, before any query runs.
func RequireAPISession(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SignedIn(sm, r); !ok {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePageSession creates middleware guarding the server-rendered pages.
// Unauthenticated visitors are sent to the login form.
func RequirePageSession(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SignedIn(sm, r); !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires the admin role on top of a
// valid session. The role was derived from the allow-list at sign-in time, so
// a stale session of a removed organizer keeps only the plain user role.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := SignedIn(sm, r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if !id.IsAdmin() {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"email", id.Email,
					"role", id.Role,
					"remote_addr", r.RemoteAddr,
				)
				http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeUnauthorized emits the fixed-shape unauthorized body used by the JSON
// endpoints.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
