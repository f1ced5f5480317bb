package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobmatch-engine/internal/domain"
)

func (s *Store) SourceState(ctx context.Context, source string) (domain.SourceState, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT source, etag, last_modified, last_fetched_at, last_status, last_error, consecutive_failures
FROM source_state WHERE source = ?;`, source)

	var st domain.SourceState
	var fetchedAt string
	err := row.Scan(&st.Source, &st.ETag, &st.LastModified, &fetchedAt,
		&st.LastStatus, &st.LastError, &st.ConsecutiveFailures)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SourceState{}, fmt.Errorf("source state %s: %w", source, domain.ErrNotFound)
	}
	if err != nil {
		return domain.SourceState{}, fmt.Errorf("get source state: %w", err)
	}
	st.LastFetchedAt = decodeTime(fetchedAt)
	return st, nil
}

func (s *Store) SaveSourceState(ctx context.Context, st domain.SourceState) error {
	if st.Source == "" {
		return errors.New("save source state: empty source")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO source_state (source, etag, last_modified, last_fetched_at, last_status, last_error, consecutive_failures)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source) DO UPDATE SET
	etag                 = excluded.etag,
	last_modified        = excluded.last_modified,
	last_fetched_at      = excluded.last_fetched_at,
	last_status          = excluded.last_status,
	last_error           = excluded.last_error,
	consecutive_failures = excluded.consecutive_failures;`,
		st.Source, st.ETag, st.LastModified, encodeTime(st.LastFetchedAt),
		st.LastStatus, st.LastError, st.ConsecutiveFailures)
	if err != nil {
		return busyErr(fmt.Errorf("save source state: %w", err))
	}
	return nil
}
