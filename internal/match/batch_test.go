package match

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/store/sqlitestore"
)

type fakeAccessor struct {
	profiles map[string]domain.Profile
}

func (f *fakeAccessor) Get(_ context.Context, id string) (domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return domain.Profile{}, errors.New("no such profile")
	}
	return p, nil
}

func TestBatchRun(t *testing.T) {
	ctx := context.Background()
	st, err := sqlitestore.Open(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	now := time.Now().UTC()
	for _, p := range []domain.JobPosting{
		mkPosting("hash-a", "go", "kubernetes"),
		mkPosting("hash-b", "cobol"),
	} {
		p.FirstSeenAt = now
		p.LastSeenAt = now
		p.Active = true
		if _, err := st.UpsertPosting(ctx, p); err != nil {
			t.Fatalf("seed posting: %v", err)
		}
	}

	accessor := &fakeAccessor{profiles: map[string]domain.Profile{
		"dev": mkProfile("go", "kubernetes"),
	}}

	// "ghost" is skipped with a warning; "dev" is scored.
	b := NewBatch(st, accessor, testEngine(), []string{"dev", "ghost"},
		50, 10, zaptest.NewLogger(t))
	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestBatchRunEmptyStore(t *testing.T) {
	st, err := sqlitestore.Open(filepath.Join(t.TempDir(), "engine.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	b := NewBatch(st, &fakeAccessor{}, testEngine(), []string{"dev"},
		0, 0, zaptest.NewLogger(t))
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run on empty store: %v", err)
	}
}
