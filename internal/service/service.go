// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the listing operations behind the admin panel:
// paginated event and team queries, and the in-memory enrichment that resolves
// a team's loose event and leader references into embedded summaries.
package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/store"
)

// EventStore is the subset of the event repository the services depend on.
type EventStore interface {
	List(ctx context.Context, p store.ListEventsParams) ([]model.Event, error)
	Count(ctx context.Context, search string) (int64, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) ([]model.EventSummary, error)
}

// TeamStore is the subset of the team repository the services depend on.
type TeamStore interface {
	List(ctx context.Context, p store.ListTeamsParams) ([]model.Team, error)
	Count(ctx context.Context, p store.TeamFilterParams) (int64, error)
	All(ctx context.Context, p store.TeamFilterParams) ([]model.Team, error)
}

// UserStore is the subset of the user repository the services depend on.
type UserStore interface {
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
}

// Pagination is the metadata block attached to every list response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination builds pagination metadata for a filtered count.
func NewPagination(total int64, page, limit int) Pagination {
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: CeilPages(total, limit),
	}
}

// CeilPages returns ceil(total/limit): the number of pages needed to hold
// total records. Zero records means zero pages.
func CeilPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// skipFor converts a 1-based page number into a skip offset.
func skipFor(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}

// isoDate serializes a timestamp as an ISO-8601 string in UTC.
func isoDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
