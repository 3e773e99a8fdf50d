package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/cache"
	"github.com/naby001/admin-panel/internal/model"
)

type teamFixture struct {
	events *fakeEventStore
	teams  *fakeTeamStore
	users  *fakeUserStore

	robotics model.Event
	quiz     model.Event
	leader   model.User
}

// newTeamFixture seeds two events, one leader and four teams covering the
// reference shapes the reader must tolerate: a fully-referenced team, a team
// with a dangling event, a team with no leader, and a legacy team with no
// references at all.
func newTeamFixture() *teamFixture {
	base := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

	robotics := model.Event{ID: primitive.NewObjectID(), Title: "Robotics Challenge", Date: base}
	quiz := model.Event{ID: primitive.NewObjectID(), Title: "Quiz Night", Date: base.AddDate(0, 0, 1)}
	leader := model.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha Rao",
		Email: "asha@example.edu",
		Phone: "9000000001",
		Role:  model.RoleUser,
	}

	danglingEvent := primitive.NewObjectID()
	missingLeader := primitive.NewObjectID()

	teams := []model.Team{
		{
			ID:               primitive.NewObjectID(),
			Name:             "Circuit Breakers",
			EventID:          model.Ref{ID: robotics.ID},
			LeaderID:         model.Ref{ID: leader.ID},
			Email:            "circuit@example.edu",
			Fullname:         "Asha Rao",
			Institution:      "NIT Agartala",
			Member1:          "Dev",
			Member2:          "Ira",
			RegistrationDate: base.Add(72 * time.Hour),
		},
		{
			ID:               primitive.NewObjectID(),
			Name:             "Ghost Event Crew",
			EventID:          model.Ref{ID: danglingEvent},
			LeaderID:         model.Ref{ID: leader.ID},
			Email:            "ghost@example.edu",
			RegistrationDate: base.Add(48 * time.Hour),
		},
		{
			ID:               primitive.NewObjectID(),
			Name:             "Leaderless",
			EventID:          model.Ref{ID: quiz.ID},
			LeaderID:         model.Ref{ID: missingLeader},
			Email:            "leaderless@example.edu",
			RegistrationDate: base.Add(24 * time.Hour),
		},
		{
			ID:               primitive.NewObjectID(),
			Name:             "Paper Form Legacy",
			Email:            "legacy@example.edu",
			Fullname:         "R. Deb",
			Member1Cap:       "Tanu",
			RegistrationDate: base,
		},
	}

	return &teamFixture{
		events:   &fakeEventStore{events: []model.Event{robotics, quiz}},
		teams:    &fakeTeamStore{teams: teams},
		users:    &fakeUserStore{users: []model.User{leader}},
		robotics: robotics,
		quiz:     quiz,
		leader:   leader,
	}
}

func (f *teamFixture) service(summaries *cache.TypedCache[model.EventSummary]) *TeamService {
	return NewTeamService(f.teams, f.events, f.users, summaries)
}

func TestTeamServiceListEnrichment(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Teams, 4)
	assert.Equal(t, Pagination{Total: 4, Page: 1, Limit: 10, Pages: 1}, page.Pagination)

	// Ordering: registration date descending.
	assert.Equal(t, "Circuit Breakers", page.Teams[0].Name)
	assert.Equal(t, "Paper Form Legacy", page.Teams[3].Name)

	resolved := page.Teams[0]
	require.NotNil(t, resolved.Event)
	assert.Equal(t, fx.robotics.ID.Hex(), resolved.Event.ID)
	assert.Equal(t, "Robotics Challenge", resolved.Event.Title)
	require.NotNil(t, resolved.Leader)
	assert.Equal(t, fx.leader.Email, resolved.Leader.Email)
	assert.Equal(t, "Dev", resolved.Member1)
	assert.Equal(t, "Ira", resolved.Member2)
	assert.Equal(t, "", resolved.Member3)
}

func TestTeamServiceListDanglingEventPlaceholder(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	ghost := page.Teams[1]
	require.Equal(t, "Ghost Event Crew", ghost.Name)
	require.NotNil(t, ghost.Event)
	assert.Equal(t, "Event information not available", ghost.Event.Title)
	// The original identity survives so the row stays attributable.
	assert.Equal(t, fx.teams.teams[1].EventID.Hex(), ghost.Event.ID)
}

func TestTeamServiceListMissingLeaderIsNull(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	leaderless := page.Teams[2]
	require.Equal(t, "Leaderless", leaderless.Name)
	assert.Nil(t, leaderless.Leader)
	require.NotNil(t, leaderless.Event)
	assert.Equal(t, "Quiz Night", leaderless.Event.Title)
}

func TestTeamServiceListLegacyTeam(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	legacy := page.Teams[3]
	require.Equal(t, "Paper Form Legacy", legacy.Name)
	assert.Nil(t, legacy.Event)
	assert.Nil(t, legacy.Leader)
	// Capitalized alias resolves into the canonical member1 slot.
	assert.Equal(t, "Tanu", legacy.Member1)
}

func TestTeamServiceListEventFilter(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{
		Page: 1, Limit: 10, EventID: fx.quiz.ID.Hex(),
	})
	require.NoError(t, err)
	require.Len(t, page.Teams, 1)
	assert.Equal(t, "Leaderless", page.Teams[0].Name)
	assert.Equal(t, int64(1), page.Pagination.Total)

	// The sentinel leaves the listing unrestricted.
	all, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10, EventID: "all"})
	require.NoError(t, err)
	assert.Len(t, all.Teams, 4)
}

func TestTeamServiceListBatchLookups(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	_, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	// One batch per entity type per page, regardless of team count.
	assert.Equal(t, 1, fx.events.summariesCalls)
	assert.Equal(t, 1, fx.users.byIDsCalls)
}

func TestTeamServiceListSummaryCache(t *testing.T) {
	fx := newTeamFixture()
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer backend.Close()
	svc := fx.service(cache.NewTypedCache[model.EventSummary](backend, time.Minute))

	first, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.events.summariesCalls)

	second, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.NoError(t, err)

	// Resolved summaries are served from the cache on the second page load;
	// the dangling reference is unresolvable and is retried.
	assert.Equal(t, 2, fx.events.summariesCalls)
	assert.Equal(t, first, second)
}

func TestTeamServiceListIdempotent(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	in := ListTeamsInput{Page: 1, Limit: 2}
	first, err := svc.List(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTeamServiceListStoreError(t *testing.T) {
	fx := newTeamFixture()
	storeErr := errors.New("cursor timeout")
	fx.teams.err = storeErr
	svc := fx.service(nil)

	page, err := svc.List(context.Background(), ListTeamsInput{Page: 1, Limit: 10})
	require.Error(t, err)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, storeErr)
}

func TestTeamServiceExport(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	views, err := svc.Export(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, views, 4)
	assert.Equal(t, 1, fx.teams.allCalls)
	assert.Zero(t, fx.teams.listCalls)

	// Export rows carry the same enrichment as the paginated listing.
	require.NotNil(t, views[0].Event)
	assert.Equal(t, "Robotics Challenge", views[0].Event.Title)
	require.NotNil(t, views[1].Event)
	assert.Equal(t, "Event information not available", views[1].Event.Title)
}

func TestTeamServiceExportEventFilter(t *testing.T) {
	fx := newTeamFixture()
	svc := fx.service(nil)

	views, err := svc.Export(context.Background(), "", fx.robotics.ID.Hex())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Circuit Breakers", views[0].Name)
}
