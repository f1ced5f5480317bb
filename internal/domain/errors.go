package domain

import (
	"errors"
	"fmt"
)

// ErrSourceRejected marks a source the gate refused. It is informational:
// the coordinator logs it and moves on, it never counts as a failure.
var ErrSourceRejected = errors.New("source rejected by gate")

// ErrStoreConflict marks a lost upsert race. The caller retries once
// before recording a batch failure.
var ErrStoreConflict = errors.New("store conflict")

// ErrNotFound is returned by store lookups for an absent key.
var ErrNotFound = errors.New("not found")

// FetchError wraps a transport failure for one source. Retried at most
// once within a batch, then recorded and skipped.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RejectionError reports an entry the normalizer refused to turn into a
// posting, naming the first missing or unusable field.
type RejectionError struct {
	Field  string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected: %s (%s)", e.Field, e.Reason)
}

// IsRejection reports whether err is a normalization rejection.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
