// Mercator - Galactic Trade Telemetry and Market Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mercator

package maintenance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mercator/internal/config"
	"github.com/tomtom215/mercator/internal/logging"
	"github.com/tomtom215/mercator/internal/snapshot"
)

// StatsGenerator is the slice of the stats package the scheduler
// drives.
type StatsGenerator interface {
	GenerateCombined(ctx context.Context) error
	GeneratePerCommodity(ctx context.Context) error
	CombinedFresh(maxAge time.Duration) bool
}

// Scheduler fires the recurring maintenance and analytics jobs. It is a
// plain timer loop computing next occurrences in UTC; the schedule is
// four fixed jobs, which does not justify a cron dependency.
//
// Jobs never overlap: the loop runs one job to completion before
// computing the next wake-up. Job errors are logged and abandoned; the
// next occurrence retries.
type Scheduler struct {
	manager *Manager
	stats   StatsGenerator
	cfg     config.MaintenanceConfig

	// freshness is the snapshot/cache age under which the recurring
	// combined run is skipped.
	freshness time.Duration

	// now is replaceable in tests.
	now func() time.Time

	log zerolog.Logger
}

// NewScheduler creates the maintenance scheduler.
func NewScheduler(manager *Manager, stats StatsGenerator,
	cfg config.MaintenanceConfig, freshness time.Duration) *Scheduler {
	if freshness <= 0 {
		freshness = snapshot.DefaultFreshness
	}
	return &Scheduler{
		manager:   manager,
		stats:     stats,
		cfg:       cfg,
		freshness: freshness,
		now:       time.Now,
		log:       logging.WithComponent("scheduler"),
	}
}

// job is one scheduled entry: when it next fires and what to run.
type job struct {
	name string
	at   time.Time
	run  func(ctx context.Context) error
}

// Serve implements suture.Service. It sleeps until the earliest next
// occurrence, runs that job, and repeats until the context is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.log.Info().
		Int("window_day", s.cfg.Day).
		Int("window_start", s.cfg.StartHour).
		Int("window_end", s.cfg.EndHour).
		Dur("stats_interval", s.cfg.StatsInterval).
		Msg("Scheduler started")

	for {
		next := s.nextJob()
		wait := time.Until(next.at)
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		s.log.Info().Str("job", next.name).Msg("Scheduled job starting")
		start := time.Now()
		if err := next.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Error().Err(err).Str("job", next.name).Msg("Scheduled job failed; next occurrence retries")
			continue
		}
		s.log.Info().Str("job", next.name).Dur("duration", time.Since(start)).Msg("Scheduled job finished")
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *Scheduler) String() string {
	return "maintenance-scheduler"
}

// nextJob returns the soonest of the four scheduled entries.
func (s *Scheduler) nextJob() job {
	now := s.now().UTC()

	jobs := []job{
		{
			name: "maintenance-window",
			at:   nextWeekly(now, time.Weekday(s.cfg.Day), s.cfg.StartHour),
			run:  s.manager.RunWindow,
		},
		{
			name: "per-commodity-stats",
			at:   nextWeekly(now, time.Weekday(s.cfg.Day), s.cfg.EndHour),
			run:  s.stats.GeneratePerCommodity,
		},
		{
			name: "combined-stats",
			at:   now.Add(s.statsInterval()),
			run:  s.runCombinedStats,
		},
		{
			name: "trade-vacuum",
			at:   nextWeekly(now, time.Weekday(s.cfg.VacuumDay), s.cfg.VacuumHour),
			run:  s.manager.RunTradeVacuum,
		},
	}

	next := jobs[0]
	for _, j := range jobs[1:] {
		if j.at.Before(next.at) {
			next = j
		}
	}
	return next
}

// runCombinedStats regenerates the combined reports unless both the
// snapshots and the cache files are still fresh; a quiet feed does not
// need six-hourly rewrites of identical output.
func (s *Scheduler) runCombinedStats(ctx context.Context) error {
	if s.manager.SnapshotsFresh() && s.stats.CombinedFresh(s.freshness) {
		s.log.Info().Msg("Snapshots and cache files fresh; combined stats skipped")
		return nil
	}
	return s.stats.GenerateCombined(ctx)
}

func (s *Scheduler) statsInterval() time.Duration {
	if s.cfg.StatsInterval > 0 {
		return s.cfg.StatsInterval
	}
	return 6 * time.Hour
}

// nextWeekly returns the next instant strictly after now that falls on
// the given UTC weekday at the top of the given hour.
func nextWeekly(now time.Time, day time.Weekday, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	days := (int(day) - int(now.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
