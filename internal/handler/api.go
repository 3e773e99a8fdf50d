// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the admin panel: the JSON
// listing endpoints the tables poll, the server-rendered pages, sign-in, the
// CSV export and the health probes.
package handler

import (
	"net/http"

	"github.com/naby001/admin-panel/internal/service"
)

// Generic failure messages for the JSON endpoints. The real errors are
// logged server-side; callers only see these.
const (
	errFetchEvents = "Failed to fetch events"
	errFetchTeams  = "Failed to fetch teams"
)

// APIHandler serves the JSON listing endpoints.
type APIHandler struct {
	events *service.EventService
	teams  *service.TeamService
}

// NewAPIHandler creates an APIHandler over the listing services.
func NewAPIHandler(events *service.EventService, teams *service.TeamService) *APIHandler {
	return &APIHandler{events: events, teams: teams}
}

// ListEvents handles GET /api/events.
// Query parameters: page (default 1), limit (default 10), search.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.events.List(r.Context(), service.ListEventsInput{
		Page:   ParsePageParam(r),
		Limit:  ParseLimitParam(r),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		logAndInternalError(w, r, errFetchEvents, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// ListTeams handles GET /api/teams.
// Query parameters: page, limit, search, eventId ("all" or an event id).
func (h *APIHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page, err := h.teams.List(r.Context(), service.ListTeamsInput{
		Page:    ParsePageParam(r),
		Limit:   ParseLimitParam(r),
		Search:  r.URL.Query().Get("search"),
		EventID: r.URL.Query().Get("eventId"),
	})
	if err != nil {
		logAndInternalError(w, r, errFetchTeams, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
