package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/store"
)

// fakeEventStore serves pre-sorted events from memory and counts calls so
// tests can assert how many store round trips an operation performed.
type fakeEventStore struct {
	events []model.Event // already in date-ascending order
	err    error

	listCalls      int
	countCalls     int
	summariesCalls int
}

func (f *fakeEventStore) List(_ context.Context, p store.ListEventsParams) ([]model.Event, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	matched := f.matching(p.Search)
	return window(matched, p.Skip, p.Limit), nil
}

func (f *fakeEventStore) Count(_ context.Context, search string) (int64, error) {
	f.countCalls++
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.matching(search))), nil
}

func (f *fakeEventStore) Summaries(_ context.Context, ids []primitive.ObjectID) ([]model.EventSummary, error) {
	f.summariesCalls++
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var result []model.EventSummary
	for _, e := range f.events {
		if _, ok := want[e.ID]; ok {
			result = append(result, model.EventSummary{ID: e.ID.Hex(), Title: e.Title})
		}
	}
	return result, nil
}

func (f *fakeEventStore) matching(search string) []model.Event {
	if search == "" {
		return f.events
	}
	var matched []model.Event
	for _, e := range f.events {
		if containsFold(e.Title, search) || containsFold(e.Description, search) ||
			containsFold(e.Venue, search) || containsFold(e.Type, search) {
			matched = append(matched, e)
		}
	}
	return matched
}

// fakeTeamStore serves pre-sorted teams from memory.
type fakeTeamStore struct {
	teams []model.Team // already in registration-date-descending order
	err   error

	listCalls  int
	countCalls int
	allCalls   int
}

func (f *fakeTeamStore) List(_ context.Context, p store.ListTeamsParams) ([]model.Team, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return window(f.matching(p.TeamFilterParams), p.Skip, p.Limit), nil
}

func (f *fakeTeamStore) Count(_ context.Context, p store.TeamFilterParams) (int64, error) {
	f.countCalls++
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.matching(p))), nil
}

func (f *fakeTeamStore) All(_ context.Context, p store.TeamFilterParams) ([]model.Team, error) {
	f.allCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.matching(p), nil
}

func (f *fakeTeamStore) matching(p store.TeamFilterParams) []model.Team {
	var matched []model.Team
	for _, t := range f.teams {
		if p.Search != "" && !containsFold(t.Name, p.Search) &&
			!containsFold(t.Email, p.Search) && !containsFold(t.Fullname, p.Search) {
			continue
		}
		if p.EventID != "" && p.EventID != store.EventFilterAll && t.EventID.Hex() != p.EventID {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// fakeUserStore serves users from memory.
type fakeUserStore struct {
	users []model.User
	err   error

	byIDsCalls int
}

func (f *fakeUserStore) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	f.byIDsCalls++
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var result []model.User
	for _, u := range f.users {
		if _, ok := want[u.ID]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func window[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
