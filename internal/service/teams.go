// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/cache"
	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/store"
)

// eventUnavailableTitle is attached in place of the title when a team
// references an event that no longer resolves.
const eventUnavailableTitle = "Event information not available"

// eventSummaryKeyPrefix namespaces cached event summaries.
const eventSummaryKeyPrefix = "event-summary:"

// LeaderView is the resolved leader attached to an enriched team, or null
// when the team has no resolvable leader reference.
type LeaderView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// TeamView is the wire shape of one enriched team row. Event and Leader are
// pointers so an unresolvable reference serializes as null instead of being
// omitted.
type TeamView struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Event            *model.EventSummary `json:"event"`
	Phone            string              `json:"phone"`
	Email            string              `json:"email"`
	Fullname         string              `json:"fullname"`
	Institution      string              `json:"institution"`
	Member1          string              `json:"member1"`
	Member2          string              `json:"member2"`
	Member3          string              `json:"member3"`
	Leader           *LeaderView         `json:"leader"`
	Members          []model.TeamMember  `json:"members"`
	RegistrationDate string              `json:"registrationDate"`
}

// TeamPage is one page of enriched teams plus its pagination metadata.
type TeamPage struct {
	Teams      []TeamView `json:"teams"`
	Pagination Pagination `json:"pagination"`
}

// ListTeamsInput are the validated query parameters for a team listing.
type ListTeamsInput struct {
	Page    int
	Limit   int
	Search  string
	EventID string
}

// TeamService produces paginated, enriched team listings and the flat export
// used by the CSV download.
type TeamService struct {
	teams  TeamStore
	events EventStore
	users  UserStore

	// summaries caches resolved event summaries across requests. Optional;
	// when nil every page resolves its events from the store.
	summaries *cache.TypedCache[model.EventSummary]
}

// NewTeamService creates a TeamService backed by the given stores. The cache
// may be nil to disable summary caching.
func NewTeamService(teams TeamStore, events EventStore, users UserStore,
	summaries *cache.TypedCache[model.EventSummary]) *TeamService {
	return &TeamService{
		teams:     teams,
		events:    events,
		users:     users,
		summaries: summaries,
	}
}

// List returns one page of enriched teams ordered by registration date
// descending. Enrichment is per-page: only the references held by the fetched
// page are resolved, in two sequential batch lookups (events, then leaders).
func (s *TeamService) List(ctx context.Context, in ListTeamsInput) (*TeamPage, error) {
	filter := store.TeamFilterParams{Search: in.Search, EventID: in.EventID}

	total, err := s.teams.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}

	teams, err := s.teams.List(ctx, store.ListTeamsParams{
		TeamFilterParams: filter,
		Skip:             skipFor(in.Page, in.Limit),
		Limit:            int64(in.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	views, err := s.enrich(ctx, teams)
	if err != nil {
		return nil, err
	}

	return &TeamPage{
		Teams:      views,
		Pagination: NewPagination(total, in.Page, in.Limit),
	}, nil
}

// Export returns every enriched team matching the filter, without pagination,
// for the CSV download.
func (s *TeamService) Export(ctx context.Context, search, eventID string) ([]TeamView, error) {
	teams, err := s.teams.All(ctx, store.TeamFilterParams{Search: search, EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("export teams: %w", err)
	}
	return s.enrich(ctx, teams)
}

// enrich resolves the event and leader references held by a batch of teams
// and shapes the wire views. References that do not resolve degrade to the
// unavailable-title placeholder (events) or null (leaders).
func (s *TeamService) enrich(ctx context.Context, teams []model.Team) ([]TeamView, error) {
	eventLookup, err := s.resolveEvents(ctx, distinctRefs(teams, func(t model.Team) model.Ref { return t.EventID }))
	if err != nil {
		return nil, err
	}

	leaderLookup, err := s.resolveLeaders(ctx, distinctRefs(teams, func(t model.Team) model.Ref { return t.LeaderID }))
	if err != nil {
		return nil, err
	}

	views := make([]TeamView, len(teams))
	for i, t := range teams {
		views[i] = newTeamView(t, eventLookup, leaderLookup)
	}
	return views, nil
}

// resolveEvents builds the identity→summary lookup for a page's event
// references, consulting the summary cache first when one is configured.
func (s *TeamService) resolveEvents(ctx context.Context, ids []primitive.ObjectID) (map[string]model.EventSummary, error) {
	lookup := make(map[string]model.EventSummary, len(ids))
	if len(ids) == 0 {
		return lookup, nil
	}

	missing := ids
	if s.summaries != nil {
		missing = missing[:0:0]
		for _, id := range ids {
			if cached, ok := s.summaries.Get(ctx, eventSummaryKeyPrefix+id.Hex()); ok {
				lookup[cached.ID] = *cached
				continue
			}
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := s.events.Summaries(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("resolve events: %w", err)
		}
		for _, summary := range fetched {
			lookup[summary.ID] = summary
			if s.summaries != nil {
				// A failed cache write only costs the next lookup a store hit.
				_ = s.summaries.Set(ctx, eventSummaryKeyPrefix+summary.ID, &summary)
			}
		}
	}

	return lookup, nil
}

// resolveLeaders builds the identity→leader lookup for a page's leader
// references.
func (s *TeamService) resolveLeaders(ctx context.Context, ids []primitive.ObjectID) (map[string]LeaderView, error) {
	lookup := make(map[string]LeaderView, len(ids))
	if len(ids) == 0 {
		return lookup, nil
	}

	users, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve leaders: %w", err)
	}
	for _, u := range users {
		lookup[u.ID.Hex()] = LeaderView{
			ID:    u.ID.Hex(),
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
			Role:  u.Role,
		}
	}
	return lookup, nil
}

func newTeamView(t model.Team, events map[string]model.EventSummary, leaders map[string]LeaderView) TeamView {
	members := t.MemberFields()

	view := TeamView{
		ID:               t.ID.Hex(),
		Name:             t.Name,
		Phone:            t.Phone,
		Email:            t.Email,
		Fullname:         t.Fullname,
		Institution:      t.Institution,
		Member1:          members[0],
		Member2:          members[1],
		Member3:          members[2],
		Members:          t.Members,
		RegistrationDate: isoDate(t.RegistrationDate),
	}

	if !t.EventID.IsZero() {
		if summary, ok := events[t.EventID.Hex()]; ok {
			view.Event = &summary
		} else {
			// The reference exists but the event does not: keep the original
			// identity so the row stays attributable.
			view.Event = &model.EventSummary{ID: t.EventID.Hex(), Title: eventUnavailableTitle}
		}
	}

	if !t.LeaderID.IsZero() {
		if leader, ok := leaders[t.LeaderID.Hex()]; ok {
			view.Leader = &leader
		}
	}

	return view
}

// distinctRefs collects the distinct, non-empty identities selected from a
// batch of teams, preserving first-seen order.
func distinctRefs(teams []model.Team, pick func(model.Team) model.Ref) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(teams))
	var ids []primitive.ObjectID
	for _, t := range teams {
		ref := pick(t)
		if ref.IsZero() {
			continue
		}
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	return ids
}
