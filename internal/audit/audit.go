// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package audit records security-relevant events (sign-ins, denials) and
// WARN+ application logs into the operational database.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

// Event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event categories.
const (
	CategoryAuth   = "auth"
	CategorySystem = "system"
)

// Recorder writes audit rows.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a Recorder over the operational database.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// SignIn records a sign-in attempt. The user agent string is parsed into
// browser and OS fields so lockout investigations do not need to parse raw
// UA strings by hand.
func (r *Recorder) SignIn(ctx context.Context, email, remoteAddr, userAgent, outcome string) error {
	ua := useragent.Parse(userAgent)

	level := LevelInfo
	if outcome != "success" {
		level = LevelWarning
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, level, category, message, email, remote_addr, browser, os, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), level, CategoryAuth, "sign-in "+outcome,
		email, remoteAddr,
		fmt.Sprintf("%s %s", ua.Name, ua.Version), ua.OS,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording sign-in: %w", err)
	}
	return nil
}

// Log records a generic audit event.
func (r *Recorder) Log(ctx context.Context, level, category, message, metadata string) error {
	if metadata == "" {
		metadata = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, level, category, message, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), level, category, message, metadata, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording audit event: %w", err)
	}
	return nil
}

// PruneBefore deletes audit rows older than the cutoff. Returns the number
// of deleted rows.
func (r *Recorder) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning audit log: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
