package ingest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/feed"
)

// Status is the runner's observable state, updated around every run.
type Status struct {
	Running    bool                `json:"running"`
	LastRunAt  time.Time           `json:"last_run_at"`
	LastOkAt   time.Time           `json:"last_ok_at"`
	LastError  string              `json:"last_error,omitempty"`
	LastReport *domain.BatchReport `json:"last_report,omitempty"`
}

// Runner serializes batch execution: a trigger that arrives while a
// run is in flight is skipped, never queued behind it.
type Runner struct {
	coord    *Coordinator
	fetchers []feed.Fetcher
	log      *zap.Logger

	mu     sync.Mutex
	status atomic.Value // Status
}

func NewRunner(coord *Coordinator, fetchers []feed.Fetcher, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{coord: coord, fetchers: fetchers, log: log}
	r.status.Store(Status{})
	return r
}

// RunNow executes one batch unless a run is already in flight, in
// which case it reports ran=false and does nothing.
func (r *Runner) RunNow(ctx context.Context) (report domain.BatchReport, ran bool) {
	if !r.mu.TryLock() {
		r.log.Info("batch already in flight, skipping trigger")
		return domain.BatchReport{}, false
	}
	defer r.mu.Unlock()

	st := r.Status()
	st.Running = true
	st.LastRunAt = time.Now().UTC()
	r.status.Store(st)

	report = r.coord.RunBatch(ctx, r.fetchers)

	st = r.Status()
	st.Running = false
	st.LastReport = &report
	if n := len(report.Failures); n > 0 {
		st.LastError = fmt.Sprintf("%d failures, see report %s", n, report.BatchID)
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().UTC()
	}
	r.status.Store(st)
	return report, true
}

func (r *Runner) Status() Status {
	return r.status.Load().(Status)
}
