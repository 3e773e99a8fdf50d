// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed populates an empty database with the event fixture and
// derives user documents from existing team registrations.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/naby001/admin-panel/internal/model"
	"github.com/naby001/admin-panel/internal/store"
)

//go:embed events.json
var eventsFixture []byte

// fixtureEvent is the JSON shape of one fixture entry.
type fixtureEvent struct {
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Date                 time.Time `json:"date"`
	Venue                string    `json:"venue"`
	MaxTeamSize          int       `json:"maxTeamSize"`
	MinTeamSize          int       `json:"minTeamSize"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	Type                 string    `json:"type"`
}

// Seeder fills empty collections. Collections that already hold documents
// are left untouched, so seeding is safe to leave enabled in development.
type Seeder struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Seeder.
func New(st *store.Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: st, logger: logger}
}

// Run seeds the events collection from the fixture and the users collection
// from distinct leader contacts found on team registrations.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedEvents(ctx); err != nil {
		return err
	}
	return s.seedUsers(ctx)
}

func (s *Seeder) seedEvents(ctx context.Context) error {
	count, err := s.store.Events.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}
	if count > 0 {
		s.logger.Debug("events collection already populated", "count", count)
		return nil
	}

	var fixtures []fixtureEvent
	if err := json.Unmarshal(eventsFixture, &fixtures); err != nil {
		return fmt.Errorf("parsing events fixture: %w", err)
	}

	now := time.Now().UTC()
	events := make([]model.Event, len(fixtures))
	for i, f := range fixtures {
		events[i] = model.Event{
			ID:                   primitive.NewObjectID(),
			Title:                f.Title,
			Description:          f.Description,
			Date:                 f.Date,
			Venue:                f.Venue,
			MaxTeamSize:          f.MaxTeamSize,
			MinTeamSize:          f.MinTeamSize,
			RegistrationDeadline: f.RegistrationDeadline,
			CreatedAt:            now,
			Type:                 f.Type,
		}
	}

	if err := s.store.Events.InsertMany(ctx, events); err != nil {
		return err
	}
	s.logger.Info("seeded events", "count", len(events))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	count, err := s.store.Users.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		s.logger.Debug("users collection already populated", "count", count)
		return nil
	}

	teams, err := s.store.Teams.All(ctx, store.TeamFilterParams{})
	if err != nil {
		return fmt.Errorf("loading teams for user derivation: %w", err)
	}

	users := DeriveUsers(teams, time.Now().UTC())
	if len(users) == 0 {
		s.logger.Debug("no team contacts to derive users from")
		return nil
	}

	if err := s.store.Users.InsertMany(ctx, users); err != nil {
		return err
	}
	s.logger.Info("seeded users from team contacts", "count", len(users))
	return nil
}

// DeriveUsers builds user documents from the distinct contact emails found
// on team registrations. The first registration carrying an email wins; all
// derived users get the plain user role, since admin is an allow-list
// decision made at session time.
func DeriveUsers(teams []model.Team, now time.Time) []model.User {
	seen := make(map[string]struct{}, len(teams))
	var users []model.User

	for _, t := range teams {
		email := strings.ToLower(strings.TrimSpace(t.Email))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}

		name := strings.TrimSpace(t.Fullname)
		if name == "" {
			name = t.Name
		}

		users = append(users, model.User{
			ID:        primitive.NewObjectID(),
			Name:      name,
			Email:     email,
			Phone:     t.Phone,
			Role:      model.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return users
}
