// Package store defines the document-store contract the engine
// persists through. Backends live in the sqlitestore and mongostore
// subpackages; callers pick one at wiring time.
package store

import (
	"context"

	"jobmatch-engine/internal/domain"
)

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// ListOptions narrows ListPostings. Zero value lists everything,
// newest last-seen first.
type ListOptions struct {
	Source     string
	ActiveOnly bool
	Limit      int
}

// Store is the persistence surface of the pipeline. UpsertPosting is
// keyed by the posting's URLHash: an atomic check-and-insert decides
// created vs updated, and updates merge only the mutable fields while
// first-seen survives. Lookups for absent keys return
// domain.ErrNotFound; lost upsert races surface as
// domain.ErrStoreConflict so the caller can retry.
type Store interface {
	UpsertPosting(ctx context.Context, p domain.JobPosting) (Outcome, error)
	GetPosting(ctx context.Context, hash string) (domain.JobPosting, error)
	ListPostings(ctx context.Context, opts ListOptions) ([]domain.JobPosting, error)

	SourceState(ctx context.Context, source string) (domain.SourceState, error)
	SaveSourceState(ctx context.Context, st domain.SourceState) error

	// SaveAnalysis deactivates the prior active analysis for the same
	// (profile, target) and inserts the new one. Old versions stay.
	SaveAnalysis(ctx context.Context, a domain.SkillGapAnalysis) error
	GetAnalysis(ctx context.Context, id string) (domain.SkillGapAnalysis, error)
	ActiveAnalysis(ctx context.Context, profileID, targetKey string) (domain.SkillGapAnalysis, error)

	ListSkillProgress(ctx context.Context, profileID string) ([]domain.SkillProgress, error)

	Close() error
}

// TargetKey builds the logical analysis key for a posting hash or a
// bare role name.
func TargetKey(postingHash, role string) string {
	if postingHash != "" {
		return postingHash
	}
	return "role:" + role
}
