// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/naby001/admin-panel/internal/model"
)

// EventFilterAll is the sentinel value meaning "no event restriction".
const EventFilterAll = "all"

// TeamRepo queries the teams collection.
type TeamRepo struct {
	col *mongo.Collection
}

// TeamFilterParams restrict a team query.
type TeamFilterParams struct {
	Search  string
	EventID string // hex identity, or "" / "all" for no restriction
}

// ListTeamsParams are the query parameters for a page of teams.
type ListTeamsParams struct {
	TeamFilterParams
	Skip  int64
	Limit int64
}

// TeamFilter builds the filter for a team query: an optional case-insensitive
// substring search over name, email and fullname, and an optional exact event
// restriction. The "all" sentinel (and the empty string) leave the event
// unrestricted.
func TeamFilter(p TeamFilterParams) bson.M {
	filter := bson.M{}

	if p.Search != "" {
		re := searchRegex(p.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"fullname": re},
		}
	}

	if p.EventID != "" && p.EventID != EventFilterAll {
		if oid, err := primitive.ObjectIDFromHex(p.EventID); err == nil {
			filter["event"] = oid
		} else {
			// Not a valid identity: match nothing rather than everything.
			filter["event"] = p.EventID
		}
	}

	return filter
}

// List returns a page of teams ordered by registration date descending, so
// the most recent registrations come first.
func (r *TeamRepo) List(ctx context.Context, p ListTeamsParams) ([]model.Team, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "registrationDate", Value: -1}}).
		SetSkip(p.Skip).
		SetLimit(p.Limit)

	cur, err := r.col.Find(ctx, TeamFilter(p.TeamFilterParams), findOpts)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer cur.Close(ctx)

	var result []model.Team
	for cur.Next(ctx) {
		var t model.Team
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		result = append(result, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list teams cursor: %w", err)
	}
	return result, nil
}

// Count returns the number of teams matching the filter.
func (r *TeamRepo) Count(ctx context.Context, p TeamFilterParams) (int64, error) {
	total, err := r.col.CountDocuments(ctx, TeamFilter(p))
	if err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return total, nil
}

// All streams every team matching the filter in registration order. Used by
// the CSV export, which is not paginated.
func (r *TeamRepo) All(ctx context.Context, p TeamFilterParams) ([]model.Team, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: -1}})

	cur, err := r.col.Find(ctx, TeamFilter(p), findOpts)
	if err != nil {
		return nil, fmt.Errorf("export teams: %w", err)
	}
	defer cur.Close(ctx)

	var result []model.Team
	for cur.Next(ctx) {
		var t model.Team
		if err := cur.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		result = append(result, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("export teams cursor: %w", err)
	}
	return result, nil
}
