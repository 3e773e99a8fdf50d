// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/store"
)

// EventView is the wire shape of one event row.
type EventView struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	Date                 string `json:"date"`
	Venue                string `json:"venue"`
	MaxTeamSize          int    `json:"maxTeamSize"`
	MinTeamSize          int    `json:"minTeamSize"`
	RegistrationDeadline string `json:"registrationDeadline"`
	CreatedAt            string `json:"createdAt"`
	Type                 string `json:"type"`
}

// EventPage is one page of events plus its pagination metadata.
type EventPage struct {
	Events     []EventView `json:"events"`
	Pagination Pagination  `json:"pagination"`
}

// ListEventsInput are the validated query parameters for an event listing.
type ListEventsInput struct {
	Page   int
	Limit  int
	Search string
}

// EventService produces paginated event listings.
type EventService struct {
	events EventStore
}

// NewEventService creates an EventService backed by the given store.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// List returns one page of events ordered by event date ascending. Pagination
// is computed from the filtered count, so the page numbers stay consistent
// with the search token.
func (s *EventService) List(ctx context.Context, in ListEventsInput) (*EventPage, error) {
	total, err := s.events.Count(ctx, in.Search)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	events, err := s.events.List(ctx, store.ListEventsParams{
		Search: in.Search,
		Skip:   skipFor(in.Page, in.Limit),
		Limit:  int64(in.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = newEventView(e)
	}

	return &EventPage{
		Events:     views,
		Pagination: NewPagination(total, in.Page, in.Limit),
	}, nil
}

func newEventView(e model.Event) EventView {
	return EventView{
		ID:                   e.ID.Hex(),
		Title:                e.Title,
		Description:          e.Description,
		Date:                 isoDate(e.Date),
		Venue:                e.Venue,
		MaxTeamSize:          e.MaxTeamSize,
		MinTeamSize:          e.MinTeamSize,
		RegistrationDeadline: isoDate(e.RegistrationDeadline),
		CreatedAt:            isoDate(e.CreatedAt),
		Type:                 e.Type,
	}
}
