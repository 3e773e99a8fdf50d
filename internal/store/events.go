// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/naby001/admin-panel/internal/model"
)

// EventRepo queries the events collection.
type EventRepo struct {
	col *mongo.Collection
}

// ListEventsParams are the query parameters for a page of events.
type ListEventsParams struct {
	Search string
	Skip   int64
	Limit  int64
}

// searchRegex builds a case-insensitive substring matcher for a user-supplied
// token. Metacharacters are quoted so the token is matched literally.
func searchRegex(token string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(token), Options: "i"}
}

// EventSearchFilter builds the filter for a free-text event search: a
// case-insensitive substring match against title, description, venue or type.
// An empty token yields the unfiltered query.
func EventSearchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	re := searchRegex(search)
	return bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"description": re},
		bson.M{"venue": re},
		bson.M{"type": re},
	}}
}

// List returns a page of events ordered by event date ascending.
func (r *EventRepo) List(ctx context.Context, p ListEventsParams) ([]model.Event, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetSkip(p.Skip).
		SetLimit(p.Limit)

	cur, err := r.col.Find(ctx, EventSearchFilter(p.Search), findOpts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var result []model.Event
	for cur.Next(ctx) {
		var e model.Event
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		result = append(result, e)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list events cursor: %w", err)
	}
	return result, nil
}

// Count returns the number of events matching the search token.
func (r *EventRepo) Count(ctx context.Context, search string) (int64, error) {
	total, err := r.col.CountDocuments(ctx, EventSearchFilter(search))
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// Summaries batch-fetches {id,title} projections for the given event ids.
// Missing ids are simply absent from the result; the caller decides how to
// degrade.
func (r *EventRepo) Summaries(ctx context.Context, ids []primitive.ObjectID) ([]model.EventSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	findOpts := options.Find().SetProjection(bson.M{"_id": 1, "title": 1})
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("fetch event summaries: %w", err)
	}
	defer cur.Close(ctx)

	var result []model.EventSummary
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Title string             `bson:"title"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode event summary: %w", err)
		}
		result = append(result, model.EventSummary{ID: row.ID.Hex(), Title: row.Title})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("event summaries cursor: %w", err)
	}
	return result, nil
}

// InsertMany seeds event documents. Used only by the seeding path.
func (r *EventRepo) InsertMany(ctx context.Context, events []model.Event) error {
	docs := make([]any, len(events))
	for i, e := range events {
		docs[i] = e
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}

// CountAll returns the total number of event documents.
func (r *EventRepo) CountAll(ctx context.Context) (int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count all events: %w", err)
	}
	return total, nil
}
