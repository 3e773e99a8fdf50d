// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/naby001/admin-panel/internal/middleware"
)

// PageHandler serves the server-rendered panel pages. The pages are thin
// shells: the tables themselves are filled in by the JSON endpoints.
type PageHandler struct {
	rd *Renderer
	sm *scs.SessionManager
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(rd *Renderer, sm *scs.SessionManager) *PageHandler {
	return &PageHandler{rd: rd, sm: sm}
}

// pageData is the common template payload.
type pageData struct {
	Title   string
	Email   string
	Role    string
	Search  string
	EventID string
	Error   string
}

func (h *PageHandler) baseData(r *http.Request, title string) pageData {
	data := pageData{Title: title}
	if id, ok := middleware.SignedIn(h.sm, r); ok {
		data.Email = id.Email
		data.Role = id.Role
	}
	return data
}

// Dashboard handles GET /.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.rd.Render(w, "dashboard", h.baseData(r, "Dashboard"))
}

// Events handles GET /events.
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "Events")
	data.Search = r.URL.Query().Get("search")
	h.rd.Render(w, "events", data)
}

// Teams handles GET /teams.
func (h *PageHandler) Teams(w http.ResponseWriter, r *http.Request) {
	data := h.baseData(r, "Teams")
	data.Search = r.URL.Query().Get("search")
	data.EventID = r.URL.Query().Get("eventId")
	h.rd.Render(w, "teams", data)
}

// Forbidden handles GET /forbidden, shown when the allow-list check fails.
func (h *PageHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	h.rd.Render(w, "forbidden", h.baseData(r, "Access denied"))
}
