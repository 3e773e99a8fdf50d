// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/service"
	"github.com/naby001/admin-panel/internal/store"
	"github.com/naby001/admin-panel/internal/util"
)

// exportHeader is the CSV column layout, mirroring the teams table.
var exportHeader = []string{
	"Team Name", "Event", "Leader Name", "Leader Email", "Leader Phone",
	"Contact Fullname", "Contact Email", "Contact Phone", "Institution",
	"Member 1", "Member 2", "Member 3", "Registered At",
}

// ExportHandler serves the CSV download of team registrations.
type ExportHandler struct {
	teams  *service.TeamService
	events service.EventStore
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(teams *service.TeamService, events service.EventStore) *ExportHandler {
	return &ExportHandler{teams: teams, events: events}
}

// Teams handles GET /teams/export. The export honors the same search and
// eventId parameters as the listing and is not paginated.
func (h *ExportHandler) Teams(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	eventID := r.URL.Query().Get("eventId")

	views, err := h.teams.Export(r.Context(), search, eventID)
	if err != nil {
		logAndInternalError(w, r, errFetchTeams, err)
		return
	}

	filename := h.exportFilename(r.Context(), eventID)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, team := range views {
		_ = cw.Write(exportRow(team))
	}
	cw.Flush()
}

func exportRow(t service.TeamView) []string {
	eventTitle := ""
	if t.Event != nil {
		eventTitle = t.Event.Title
	}
	leaderName, leaderEmail, leaderPhone := "", "", ""
	if t.Leader != nil {
		leaderName = t.Leader.Name
		leaderEmail = t.Leader.Email
		leaderPhone = t.Leader.Phone
	}
	return []string{
		t.Name, eventTitle, leaderName, leaderEmail, leaderPhone,
		t.Fullname, t.Email, t.Phone, t.Institution,
		t.Member1, t.Member2, t.Member3, t.RegistrationDate,
	}
}

// exportFilename names the download after the selected event and the export
// date. Unresolvable event filters fall back to the all-events name.
func (h *ExportHandler) exportFilename(ctx context.Context, eventID string) string {
	slug := "all-events"

	if eventID != "" && eventID != store.EventFilterAll {
		if oid, err := primitive.ObjectIDFromHex(eventID); err == nil {
			if summaries, err := h.events.Summaries(ctx, []primitive.ObjectID{oid}); err == nil && len(summaries) == 1 {
				if s := util.Slugify(summaries[0].Title); s != "" {
					slug = s
				}
			}
		}
	}

	return fmt.Sprintf("registrations-%s-%s.csv", slug, time.Now().UTC().Format("2006-01-02"))
}
