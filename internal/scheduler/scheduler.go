// Package scheduler runs the unattended batches: ingestion on an
// interval and the match sweep on a daily cron spec.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one scheduled unit of work. Errors are logged, never fatal:
// a failed run waits for the next tick.
type Task func(ctx context.Context) error

type Params struct {
	IngestEvery time.Duration
	MatchCron   string // empty disables the match sweep
	Ingest      Task
	Match       Task
	Log         *zap.Logger
}

// Scheduler wraps robfig/cron. SkipIfStillRunning backs up the
// Runner's own single-flight guard so overlapping ticks are dropped,
// never queued.
type Scheduler struct {
	cron *cron.Cron
	p    Params
}

func New(p Params) *Scheduler {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	return &Scheduler{cron: c, p: p}
}

// Start registers the jobs and starts the loop. The first ingestion
// runs immediately so a fresh install does not wait a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.p.IngestEvery)
	if _, err := s.cron.AddFunc(spec, func() {
		s.runTask(ctx, "ingest", s.p.Ingest)
	}); err != nil {
		return fmt.Errorf("schedule ingest: %w", err)
	}

	if s.p.MatchCron != "" && s.p.Match != nil {
		if _, err := s.cron.AddFunc(s.p.MatchCron, func() {
			s.runTask(ctx, "match", s.p.Match)
		}); err != nil {
			return fmt.Errorf("schedule match: %w", err)
		}
	}

	s.cron.Start()
	s.p.Log.Info("scheduler started",
		zap.String("ingest_spec", spec),
		zap.String("match_cron", s.p.MatchCron))

	go s.runTask(ctx, "ingest", s.p.Ingest)
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.p.Log.Info("scheduler stopped")
}

func (s *Scheduler) runTask(ctx context.Context, name string, task Task) {
	if task == nil || ctx.Err() != nil {
		return
	}
	if err := task(ctx); err != nil {
		s.p.Log.Error("scheduled task failed",
			zap.String("task", name), zap.Error(err))
	}
}
