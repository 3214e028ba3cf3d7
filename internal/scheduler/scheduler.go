// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/ocms-multilingual/internal/cache"
	"github.com/olegiv/ocms-multilingual/internal/model"
	"github.com/olegiv/ocms-multilingual/internal/store"
)

// Cron specs for the built-in jobs.
const (
	PruneEventsSpec = "0 3 * * *"
	CacheStatsSpec  = "*/15 * * * *"
)

// EventStore is the part of the store the scheduler uses.
type EventStore interface {
	CreateEvent(ctx context.Context, arg store.CreateEventParams) (int64, error)
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler prunes the event log and reports cache statistics.
type Scheduler struct {
	events    EventStore
	retention time.Duration
	stats     cache.StatsProvider
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a scheduler. Events older than retention are pruned daily;
// a zero retention keeps them.
func New(events EventStore, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		events:    events,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// WithCacheStats makes the scheduler log p's counters periodically.
func (s *Scheduler) WithCacheStats(p cache.StatsProvider) *Scheduler {
	s.stats = p
	return s
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retention > 0 {
		_, err := s.cron.AddFunc(PruneEventsSpec, func() {
			if _, err := s.PruneEvents(context.Background()); err != nil {
				s.logger.Error("failed to prune events", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}
	if s.stats != nil {
		if _, err := s.cron.AddFunc(CacheStatsSpec, s.logCacheStats); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention period and records
// the run in the event log when anything was removed.
func (s *Scheduler) PruneEvents(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	now := s.now()
	cutoff := now.Add(-s.retention)
	n, err := s.events.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	s.logger.Info("pruned event log", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	metadata, _ := json.Marshal(map[string]any{
		"deleted": n,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	_, err = s.events.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "Event log pruned by scheduler",
		Metadata:  string(metadata),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("failed to log prune event", "error", err)
	}
	return n, nil
}

func (s *Scheduler) logCacheStats() {
	st := s.stats.Stats()
	s.logger.Info("record cache stats",
		"hits", st.Hits,
		"misses", st.Misses,
		"items", st.Items,
		"evictions", st.Evictions,
		"hit_rate", st.HitRate,
	)
}
