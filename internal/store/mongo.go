// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store implements the MongoDB repositories for the festival
// collections. The store never enforces referential integrity; dangling
// references are resolved (or not) by the service layer.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the festival database.
const (
	CollectionEvents = "events"
	CollectionTeams  = "teams"
	CollectionUsers  = "users"
)

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// Store bundles the per-collection repositories over one database handle.
type Store struct {
	db     *mongo.Database
	Events *EventRepo
	Teams  *TeamRepo
	Users  *UserRepo
}

// New creates a Store for the named database.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		db:     db,
		Events: &EventRepo{col: db.Collection(CollectionEvents)},
		Teams:  &TeamRepo{col: db.Collection(CollectionTeams)},
		Users:  &UserRepo{col: db.Collection(CollectionUsers)},
	}
}

// Ping verifies the underlying connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}
