// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/naby001/admin-panel/internal/auth"
	"github.com/naby001/admin-panel/internal/config"
	"github.com/naby001/admin-panel/internal/handler"
	"github.com/naby001/admin-panel/internal/middleware"
)

const (
	testOrganizerEmail = "organizer@example.edu"
	testPassword       = "orchid-battery-staple-91"
)

// newTestRouter builds the real router over nil stores. Routes whose handlers
// would touch a store are only ever reached here when a guard should have
// stopped the request first.
func newTestRouter(t *testing.T, allowListed bool) http.Handler {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	cfg := &config.Config{
		SessionSecret:     "router-test-secret-0123456789abcdef",
		Env:               "development",
		ServerHost:        "localhost",
		ServerPort:        8080,
		AdminEmail:        testOrganizerEmail,
		AdminPasswordHash: hash,
	}
	if allowListed {
		cfg.AdminEmails = []string{testOrganizerEmail}
	}

	rd, err := handler.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	docs, err := handler.NewDocsHandler(rd)
	if err != nil {
		t.Fatalf("NewDocsHandler() error = %v", err)
	}

	sm := scs.New()
	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	return buildRouter(cfg, sm, protection,
		handler.NewAPIHandler(nil, nil),
		handler.NewAuthHandler(cfg, sm, rd, protection, nil),
		handler.NewPageHandler(rd, sm),
		handler.NewExportHandler(nil, nil),
		handler.NewHealthHandler(nil, nil, "test"),
		docs,
	)
}

// signIn posts valid credentials through the router and returns the session
// cookies from the response.
func signIn(t *testing.T, router http.Handler) []*http.Cookie {
	t.Helper()

	form := url.Values{
		"email":    {testOrganizerEmail},
		"password": {testPassword},
	}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("POST /login status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("sign-in set no session cookie")
	}
	return cookies
}

func get(router http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestPanelPagesDenyNonAllowListedSession(t *testing.T) {
	router := newTestRouter(t, false)
	cookies := signIn(t, router)

	// Valid session, but the email is not on the allow-list: the session
	// carries the plain user role and every panel page must refuse it.
	for _, path := range []string{"/", "/events", "/teams", "/teams/export", "/help"} {
		rr := get(router, path, cookies)
		if rr.Code != http.StatusSeeOther {
			t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusSeeOther)
			continue
		}
		if loc := rr.Header().Get("Location"); loc != "/forbidden" {
			t.Errorf("GET %s redirects to %q, want /forbidden", path, loc)
		}
	}
}

func TestPanelPagesServeAllowListedOrganizer(t *testing.T) {
	router := newTestRouter(t, true)
	cookies := signIn(t, router)

	for _, path := range []string{"/", "/events", "/teams"} {
		rr := get(router, path, cookies)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

func TestPanelPagesRedirectAnonymousToLogin(t *testing.T) {
	router := newTestRouter(t, true)

	rr := get(router, "/teams", nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("GET /teams status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("GET /teams redirects to %q, want /login", loc)
	}
}

func TestForbiddenPageStaysReachable(t *testing.T) {
	router := newTestRouter(t, false)
	cookies := signIn(t, router)

	// The denial target itself must not sit behind the admin guard, or the
	// redirect would loop.
	rr := get(router, "/forbidden", cookies)
	if rr.Code != http.StatusForbidden {
		t.Errorf("GET /forbidden status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}
