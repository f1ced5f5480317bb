// Package ingest drives scheduled batch runs: gate check, fetch,
// normalize, upsert, one report per batch. A batch degrades per item
// and per source; only cancellation stops it early.
package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/source"
	"jobmatch-engine/internal/store"
)

const (
	fetchTimeout = 2 * time.Minute
	retryDelay   = 500 * time.Millisecond
)

// Enricher supplies skill tags when keyword extraction found none.
// Optional; failures degrade to the un-enriched posting.
type Enricher interface {
	ExtractSkills(ctx context.Context, title, description string) ([]string, error)
}

type Params struct {
	Gate        *source.Gate
	Store       store.Store
	Hub         *events.Hub
	Log         *zap.Logger
	Concurrency int
	Enricher    Enricher
}

type Coordinator struct {
	gate        *source.Gate
	store       store.Store
	hub         *events.Hub
	log         *zap.Logger
	concurrency int
	enricher    Enricher
}

func NewCoordinator(p Params) *Coordinator {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Hub == nil {
		p.Hub = events.NewHub()
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	return &Coordinator{
		gate:        p.Gate,
		store:       p.Store,
		hub:         p.Hub,
		log:         p.Log,
		concurrency: p.Concurrency,
		enricher:    p.Enricher,
	}
}

// reportBuilder collects per-source outcomes; sources run concurrently.
type reportBuilder struct {
	mu     sync.Mutex
	report domain.BatchReport
}

func (b *reportBuilder) add(t domain.SourceTally, failures []domain.BatchFailure, processed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report.Processed += processed
	b.report.Created += t.Created
	b.report.Updated += t.Updated
	b.report.Rejected += t.Rejected
	b.report.Failures = append(b.report.Failures, failures...)
	b.report.Sources = append(b.report.Sources, t)
}

// RunBatch fetches every source through the gate and upserts what
// normalizes. Running the same batch twice converges: the second run
// creates nothing new and only advances last-seen timestamps.
func (c *Coordinator) RunBatch(ctx context.Context, fetchers []feed.Fetcher) domain.BatchReport {
	builder := &reportBuilder{}
	builder.report.BatchID = uuid.NewString()
	builder.report.StartedAt = time.Now().UTC()

	c.hub.Publish(events.Make(builder.report.BatchID, events.TypeBatchStarted,
		map[string]int{"sources": len(fetchers)}))
	c.log.Info("batch started",
		zap.String("batch_id", builder.report.BatchID),
		zap.Int("sources", len(fetchers)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			c.runSource(gctx, builder, f)
			return nil
		})
	}
	_ = g.Wait()

	builder.report.FinishedAt = time.Now().UTC()
	sort.Slice(builder.report.Sources, func(i, j int) bool {
		return builder.report.Sources[i].Source < builder.report.Sources[j].Source
	})

	report := builder.report
	c.hub.Publish(events.Make(report.BatchID, events.TypeBatchCompleted, map[string]int{
		"processed": report.Processed,
		"created":   report.Created,
		"updated":   report.Updated,
		"rejected":  report.Rejected,
		"failures":  len(report.Failures),
	}))
	c.log.Info("batch completed",
		zap.String("batch_id", report.BatchID),
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("rejected", report.Rejected),
		zap.Int("failures", len(report.Failures)))
	return report
}

func (c *Coordinator) runSource(ctx context.Context, builder *reportBuilder, f feed.Fetcher) {
	name := f.Name()
	tally := domain.SourceTally{Source: name}
	var failures []domain.BatchFailure

	if !c.gate.Allowed(f.Descriptor()) {
		// informational skip, not a failure
		tally.Denied = true
		c.log.Info("source denied by whitelist", zap.String("source", name))
		c.saveState(ctx, domain.SourceState{
			Source:        name,
			LastFetchedAt: time.Now().UTC(),
			LastStatus:    "denied",
		})
		builder.add(tally, nil, 0)
		return
	}

	prev, err := c.store.SourceState(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.log.Warn("source state unavailable", zap.String("source", name), zap.Error(err))
	}

	res, err := c.fetchWithRetry(ctx, f, prev)
	if err != nil {
		ferr := &domain.FetchError{Source: name, Err: err}
		failures = append(failures, domain.BatchFailure{
			Source: name,
			Stage:  domain.StageFetch,
			Reason: ferr.Error(),
		})
		c.log.Warn("fetch failed", zap.String("source", name), zap.Error(err))
		c.saveState(ctx, domain.SourceState{
			Source:              name,
			ETag:                prev.ETag,
			LastModified:        prev.LastModified,
			LastFetchedAt:       time.Now().UTC(),
			LastStatus:          "failed",
			LastError:           err.Error(),
			ConsecutiveFailures: prev.ConsecutiveFailures + 1,
		})
		builder.add(tally, failures, 0)
		return
	}

	if res.NotModified {
		// unchanged upstream: a successful zero-entry fetch
		tally.Skipped = true
		c.log.Debug("source unchanged", zap.String("source", name))
		c.saveState(ctx, domain.SourceState{
			Source:        name,
			ETag:          res.ETag,
			LastModified:  res.LastModified,
			LastFetchedAt: time.Now().UTC(),
			LastStatus:    "ok",
		})
		builder.add(tally, nil, 0)
		return
	}

	tally.Fetched = len(res.Entries)
	processed := 0
	batchID := builder.report.BatchID
	for _, entry := range res.Entries {
		if ctx.Err() != nil {
			break
		}
		processed++
		c.handleEntry(ctx, batchID, name, entry, &tally, &failures)
	}

	c.saveState(ctx, domain.SourceState{
		Source:        name,
		ETag:          res.ETag,
		LastModified:  res.LastModified,
		LastFetchedAt: time.Now().UTC(),
		LastStatus:    "ok",
	})
	builder.add(tally, failures, processed)
}

func (c *Coordinator) handleEntry(ctx context.Context, batchID, sourceName string,
	entry normalize.RawEntry, tally *domain.SourceTally, failures *[]domain.BatchFailure) {

	posting, err := normalize.Normalize(entry, sourceName)
	if err != nil {
		tally.Rejected++
		*failures = append(*failures, domain.BatchFailure{
			Source: sourceName,
			Entry:  normalize.EntryID(entry),
			Stage:  domain.StageNormalize,
			Reason: err.Error(),
		})
		c.hub.Publish(events.Make(batchID, events.TypeEntryRejected, map[string]string{
			"source": sourceName,
			"entry":  normalize.EntryID(entry),
			"reason": err.Error(),
		}))
		c.log.Debug("entry rejected",
			zap.String("source", sourceName),
			zap.String("entry", normalize.EntryID(entry)),
			zap.Error(err))
		return
	}

	if len(posting.Skills) == 0 && c.enricher != nil {
		if skills, err := c.enricher.ExtractSkills(ctx, posting.Title, posting.Description); err != nil {
			c.log.Warn("skill enrichment failed",
				zap.String("url_hash", posting.URLHash), zap.Error(err))
		} else {
			posting.Skills = skills
		}
	}

	outcome, err := c.upsertWithRetry(ctx, posting)
	if err != nil {
		*failures = append(*failures, domain.BatchFailure{
			Source: sourceName,
			Entry:  posting.URL,
			Stage:  domain.StageStore,
			Reason: err.Error(),
		})
		c.log.Warn("upsert failed",
			zap.String("source", sourceName),
			zap.String("url_hash", posting.URLHash),
			zap.Error(err))
		return
	}

	switch outcome {
	case store.OutcomeCreated:
		tally.Created++
		c.hub.Publish(events.Make(batchID, events.TypePostingCreated, map[string]string{
			"url_hash": posting.URLHash,
			"title":    posting.Title,
			"company":  posting.Company,
		}))
	case store.OutcomeUpdated:
		tally.Updated++
		c.hub.Publish(events.Make(batchID, events.TypePostingUpdated, map[string]string{
			"url_hash": posting.URLHash,
		}))
	}
}

// fetchWithRetry retries a failed fetch exactly once per batch.
func (c *Coordinator) fetchWithRetry(ctx context.Context, f feed.Fetcher, prev domain.SourceState) (feed.Result, error) {
	fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	res, err := f.Fetch(fctx, prev)
	if err == nil || ctx.Err() != nil {
		return res, err
	}

	c.log.Debug("retrying fetch", zap.String("source", f.Name()), zap.Error(err))
	select {
	case <-ctx.Done():
		return feed.Result{}, err
	case <-time.After(retryDelay):
	}

	rctx, rcancel := context.WithTimeout(ctx, fetchTimeout)
	defer rcancel()
	return f.Fetch(rctx, prev)
}

// upsertWithRetry retries a conflicted upsert exactly once; the loser
// of a same-hash race converges to an update on the second attempt.
func (c *Coordinator) upsertWithRetry(ctx context.Context, p domain.JobPosting) (store.Outcome, error) {
	outcome, err := c.store.UpsertPosting(ctx, p)
	if errors.Is(err, domain.ErrStoreConflict) {
		return c.store.UpsertPosting(ctx, p)
	}
	return outcome, err
}

func (c *Coordinator) saveState(ctx context.Context, st domain.SourceState) {
	if err := c.store.SaveSourceState(ctx, st); err != nil {
		c.log.Warn("save source state failed",
			zap.String("source", st.Source), zap.Error(err))
	}
}
