// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/naby001/admin-panel/internal/audit"
	"github.com/naby001/admin-panel/internal/auth"
	"github.com/naby001/admin-panel/internal/config"
	"github.com/naby001/admin-panel/internal/middleware"
	"github.com/naby001/admin-panel/internal/model"
)

// Sign-in outcomes recorded in the audit log.
const (
	signInSuccess = "success"
	signInFailure = "failure"
	signInBypass  = "dev-bypass"
)

// AuthHandler serves the sign-in and sign-out flows.
type AuthHandler struct {
	cfg        *config.Config
	sm         *scs.SessionManager
	rd         *Renderer
	protection *middleware.LoginProtection
	recorder   *audit.Recorder
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(cfg *config.Config, sm *scs.SessionManager, rd *Renderer,
	protection *middleware.LoginProtection, recorder *audit.Recorder) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		sm:         sm,
		rd:         rd,
		protection: protection,
		recorder:   recorder,
	}
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SignedIn(h.sm, r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.rd.Render(w, "login", pageData{Title: "Sign in"})
}

// Login handles POST /login. IP rate limiting runs in middleware before this
// handler; account lockout is checked here because it needs the email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, "Invalid form submission.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, "Email and password are required.")
		return
	}

	if locked, remaining := h.protection.IsAccountLocked(email); locked {
		h.renderLoginError(w, fmt.Sprintf(
			"Account temporarily locked. Try again in %s.", remaining.Round(time.Second)))
		return
	}

	ok, role, outcome := h.authenticate(email, password)
	if !ok {
		h.recordSignIn(r, email, signInFailure)
		if locked, duration := h.protection.RecordFailedAttempt(email); locked {
			h.renderLoginError(w, fmt.Sprintf(
				"Too many failed attempts. Account locked for %s.", duration))
			return
		}
		h.renderLoginError(w, "Invalid email or password.")
		return
	}

	h.protection.RecordSuccessfulLogin(email)

	// A fresh token on privilege change prevents session fixation.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		slog.Error("session token renewal failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyEmail, email)
	h.sm.Put(r.Context(), middleware.SessionKeyRole, role)

	h.recordSignIn(r, email, outcome)
	slog.Info("organizer signed in", "category", "auth", "email", email, "role", role)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout and GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sm.Destroy(r.Context()); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// authenticate validates the credential pair and derives the session role.
// The role comes from the allow-list at sign-in time, never from stored user
// documents.
func (h *AuthHandler) authenticate(email, password string) (ok bool, role, outcome string) {
	// The bypass approves any credential pair as admin. Config.Load refuses
	// it outside the development environment.
	if h.cfg.DevAuthBypass {
		return true, model.RoleAdmin, signInBypass
	}

	if h.cfg.AdminEmail == "" || h.cfg.AdminPasswordHash == "" {
		return false, "", signInFailure
	}
	if email != strings.ToLower(strings.TrimSpace(h.cfg.AdminEmail)) {
		return false, "", signInFailure
	}

	match, err := auth.CheckPassword(password, h.cfg.AdminPasswordHash)
	if err != nil {
		slog.Error("password verification failed", "error", err)
		return false, "", signInFailure
	}
	if !match {
		return false, "", signInFailure
	}

	role = model.RoleUser
	if h.cfg.IsAdminEmail(email) {
		role = model.RoleAdmin
	}
	return true, role, signInSuccess
}

func (h *AuthHandler) recordSignIn(r *http.Request, email, outcome string) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.SignIn(r.Context(), email, r.RemoteAddr, r.UserAgent(), outcome); err != nil {
		slog.Error("audit record failed", "error", err)
	}
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	h.rd.Render(w, "login", pageData{Title: "Sign in", Error: message})
}
