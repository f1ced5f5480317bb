package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

var schemaV1 = []string{
	`CREATE TABLE IF NOT EXISTS postings (
	url_hash        TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL,
	url             TEXT NOT NULL,
	location        TEXT NOT NULL DEFAULT '',
	remote          INTEGER NOT NULL DEFAULT 0,
	work_type       TEXT NOT NULL DEFAULT '',
	seniority       TEXT NOT NULL DEFAULT '',
	salary_min      INTEGER NOT NULL DEFAULT 0,
	salary_max      INTEGER NOT NULL DEFAULT 0,
	salary_currency TEXT NOT NULL DEFAULT '',
	skills          TEXT NOT NULL DEFAULT '[]',
	description     TEXT NOT NULL DEFAULT '',
	source_id       TEXT NOT NULL DEFAULT '',
	posted_at       TEXT NOT NULL DEFAULT '',
	first_seen_at   TEXT NOT NULL,
	last_seen_at    TEXT NOT NULL,
	active          INTEGER NOT NULL DEFAULT 1
);`,
	`CREATE INDEX IF NOT EXISTS idx_postings_source ON postings(source_id);`,
	`CREATE INDEX IF NOT EXISTS idx_postings_last_seen ON postings(last_seen_at);`,

	`CREATE TABLE IF NOT EXISTS source_state (
	source               TEXT PRIMARY KEY,
	etag                 TEXT NOT NULL DEFAULT '',
	last_modified        TEXT NOT NULL DEFAULT '',
	last_fetched_at      TEXT NOT NULL DEFAULT '',
	last_status          TEXT NOT NULL DEFAULT '',
	last_error           TEXT NOT NULL DEFAULT '',
	consecutive_failures INTEGER NOT NULL DEFAULT 0
);`,

	`CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	target_key TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	active     INTEGER NOT NULL DEFAULT 1
);`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_target ON analyses(profile_id, target_key, active);`,

	`CREATE TABLE IF NOT EXISTS skill_progress (
	profile_id          TEXT NOT NULL,
	skill               TEXT NOT NULL,
	started_at          TEXT NOT NULL DEFAULT '',
	hours_logged        INTEGER NOT NULL DEFAULT 0,
	completed_resources INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (profile_id, skill)
);`,
}

// migrate brings the schema up to schemaVersion inside one
// transaction, gated on PRAGMA user_version so reopening is a no-op.
func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer tx.Rollback()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if v < 1 {
		for _, q := range schemaV1 {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("migrate v1: %w", err)
			}
		}
	}
	if v < schemaVersion {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return tx.Commit()
}
