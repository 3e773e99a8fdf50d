// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the panel's periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/naby001/admin-panel/internal/audit"
	"github.com/naby001/admin-panel/internal/cache"
)

// Scheduler handles periodic maintenance: pruning old audit records and
// reporting cache statistics.
type Scheduler struct {
	recorder      *audit.Recorder
	cacher        cache.Cacher
	retentionDays int
	cron          *cron.Cron
	logger        *slog.Logger
}

// New creates a new scheduler instance.
func New(recorder *audit.Recorder, cacher cache.Cacher, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		recorder:      recorder,
		cacher:        cacher,
		retentionDays: retentionDays,
		cron:          cron.New(),
		logger:        logger,
	}
}

// Start registers the maintenance jobs and begins the schedule.
func (s *Scheduler) Start() error {
	// Prune expired audit records nightly.
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneAudit(); err != nil {
			s.logger.Error("audit prune failed", "error", err)
		}
	}); err != nil {
		return err
	}

	// Report cache statistics hourly.
	if _, err := s.cron.AddFunc("0 * * * *", s.reportCacheStats); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) pruneAudit() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	removed, err := s.recorder.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("pruned audit records", "removed", removed, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}

func (s *Scheduler) reportCacheStats() {
	provider, ok := s.cacher.(cache.StatsProvider)
	if !ok {
		return
	}
	stats := provider.Stats()
	s.logger.Info("cache statistics",
		"hits", stats.Hits,
		"misses", stats.Misses,
		"sets", stats.Sets,
		"items", stats.Items,
	)
}
