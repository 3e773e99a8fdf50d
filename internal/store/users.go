// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/naby001/admin-panel/internal/model"
)

// UserRepo queries the users collection.
type UserRepo struct {
	col *mongo.Collection
}

// ByIDs batch-fetches users by identity. Ids with no matching document are
// absent from the result.
func (r *UserRepo) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("fetch users by ids: %w", err)
	}
	defer cur.Close(ctx)

	var result []model.User
	for cur.Next(ctx) {
		var u model.User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		result = append(result, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("users cursor: %w", err)
	}
	return result, nil
}

// InsertMany seeds user documents. Used only by the seeding path.
func (r *UserRepo) InsertMany(ctx context.Context, users []model.User) error {
	docs := make([]any, len(users))
	for i, u := range users {
		docs[i] = u
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	return nil
}

// CountAll returns the total number of user documents.
func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count all users: %w", err)
	}
	return total, nil
}
