package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jobmatch-engine/internal/logger"
	"jobmatch-engine/internal/profile"
	"jobmatch-engine/internal/store"
)

// Batch is the scheduled match sweep: score every active posting
// against each configured profile and log the leaders. Results are
// ephemeral by contract, so the sweep reports rather than persists.
type Batch struct {
	store      store.Store
	profiles   profile.Accessor
	engine     *Engine
	profileIDs []string
	minScore   float64
	topN       int
	log        *zap.Logger
}

func NewBatch(st store.Store, accessor profile.Accessor, engine *Engine,
	profileIDs []string, minScore float64, topN int, log *zap.Logger) *Batch {
	if log == nil {
		log = zap.NewNop()
	}
	if topN <= 0 {
		topN = 20
	}
	return &Batch{
		store:      st,
		profiles:   accessor,
		engine:     engine,
		profileIDs: profileIDs,
		minScore:   minScore,
		topN:       topN,
		log:        log,
	}
}

// Run scores the stored postings for every configured profile. A
// missing profile is logged and skipped; only a store failure aborts.
func (b *Batch) Run(ctx context.Context) error {
	postings, err := b.store.ListPostings(ctx, store.ListOptions{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("list postings: %w", err)
	}
	if len(postings) == 0 {
		b.log.Info("match sweep: no postings stored yet")
		return nil
	}

	for _, id := range b.profileIDs {
		prof, err := b.profiles.Get(ctx, id)
		if err != nil {
			b.log.Warn("match sweep: profile unavailable",
				zap.String("profile", id), zap.Error(err))
			continue
		}

		ranked := Rank(b.engine.ScoreAll(prof, postings))
		shown := 0
		for _, r := range ranked {
			if r.Score < b.minScore || shown >= b.topN {
				break
			}
			shown++
			b.log.Info("match",
				zap.String("profile", id),
				zap.String("title", logger.Truncate(r.PostingTitle, 80)),
				zap.String("company", r.PostingCompany),
				zap.Float64("score", r.Score),
				zap.String("url_hash", r.PostingHash),
				zap.Strings("missing", r.MissingSkills))
		}
		b.log.Info("match sweep completed",
			zap.String("profile", id),
			zap.Int("postings", len(postings)),
			zap.Int("reported", shown))
	}
	return nil
}
