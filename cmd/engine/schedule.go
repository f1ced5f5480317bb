package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/match"
	"jobmatch-engine/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the ingestion and match batches on their schedule until interrupted",
	Run: func(cmd *cobra.Command, _ []string) {
		runSchedule(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx)
	if err != nil {
		log.Fatalf("starting the engine: %v", err)
	}
	defer d.Close()

	// One engine per data dir: two schedulers would race on the same
	// hashes and double-fetch every source.
	lock := flock.New(filepath.Join(d.cfg.App.DataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		d.log.Fatal("acquiring instance lock", zap.Error(err))
	}
	if !locked {
		d.log.Fatal("another engine instance holds the lock",
			zap.String("lock", lock.Path()))
	}
	defer lock.Unlock()

	d.log.Info("starting the engine", zap.String("version", version))

	if uri := amqpURI(d.cfg); uri != "" {
		pub, err := events.NewAMQPPublisher(uri, d.log)
		if err != nil {
			d.log.Warn("event bridge unavailable", zap.Error(err))
		} else {
			defer pub.Close()
			go pub.Bridge(ctx, d.hub)
		}
	}

	interval, err := d.cfg.IngestInterval()
	if err != nil {
		d.log.Fatal("parsing schedule", zap.Error(err))
	}

	sched := scheduler.New(scheduler.Params{
		IngestEvery: interval,
		MatchCron:   d.cfg.Schedule.MatchCron,
		Ingest: func(ctx context.Context) error {
			d.runner.RunNow(ctx)
			return nil
		},
		Match: d.matchTask(),
		Log:   d.log,
	})
	if err := sched.Start(ctx); err != nil {
		d.log.Fatal("starting scheduler", zap.Error(err))
	}

	<-ctx.Done()
	d.log.Info("shutting down")
	sched.Stop()
}

// matchTask builds the scheduled match sweep over the configured
// profiles, or nil when no profiles are available.
func (d *deps) matchTask() scheduler.Task {
	ids := []string{d.cfg.Profiles.Default}
	if d.cfg.Profiles.Default == "" {
		all, err := d.profiles.List()
		if err != nil || len(all) == 0 {
			d.log.Info("match sweep disabled: no profiles configured")
			return nil
		}
		ids = all
	}

	return func(ctx context.Context) error {
		// Reference time is pinned per sweep so every posting in one
		// sweep sees the same recency clock.
		engine := match.NewEngine(d.weights, time.Now().UTC())
		batch := match.NewBatch(d.store, d.profiles, engine, ids,
			d.cfg.Scoring.MinScore, d.cfg.Scoring.TopN, d.log)
		return batch.Run(ctx)
	}
}
