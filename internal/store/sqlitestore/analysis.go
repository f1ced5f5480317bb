package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/store"
)

// SaveAnalysis retires the active analysis for the same (profile,
// target) and inserts the new one as a fresh row. Superseded rows stay
// addressable by ID.
func (s *Store) SaveAnalysis(ctx context.Context, a domain.SkillGapAnalysis) error {
	if a.ID == "" {
		return errors.New("save analysis: empty id")
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	target := store.TargetKey(a.PostingHash, a.Role)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return busyErr(fmt.Errorf("begin save analysis: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
UPDATE analyses SET active = 0
WHERE profile_id = ? AND target_key = ? AND active = 1;`, a.ProfileID, target); err != nil {
		return busyErr(fmt.Errorf("retire prior analysis: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO analyses (id, profile_id, target_key, payload, created_at, active)
VALUES (?, ?, ?, ?, ?, ?);`,
		a.ID, a.ProfileID, target, string(payload), encodeTime(a.CreatedAt), boolToInt(a.Active)); err != nil {
		return busyErr(fmt.Errorf("insert analysis: %w", err))
	}
	return busyErr(tx.Commit())
}

func (s *Store) GetAnalysis(ctx context.Context, id string) (domain.SkillGapAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT payload, active FROM analyses WHERE id = ?;`, id)
	return scanAnalysis(row, "analysis "+id)
}

func (s *Store) ActiveAnalysis(ctx context.Context, profileID, targetKey string) (domain.SkillGapAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT payload, active FROM analyses
WHERE profile_id = ? AND target_key = ? AND active = 1
ORDER BY created_at DESC LIMIT 1;`, profileID, targetKey)
	return scanAnalysis(row, fmt.Sprintf("active analysis %s/%s", profileID, targetKey))
}

// scanAnalysis decodes the JSON payload; the row's active column is
// authoritative over the snapshot inside the payload.
func scanAnalysis(row *sql.Row, what string) (domain.SkillGapAnalysis, error) {
	var (
		payload string
		active  int
	)
	if err := row.Scan(&payload, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SkillGapAnalysis{}, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return domain.SkillGapAnalysis{}, fmt.Errorf("scan %s: %w", what, err)
	}
	var a domain.SkillGapAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return domain.SkillGapAnalysis{}, fmt.Errorf("decode %s: %w", what, err)
	}
	a.Active = active != 0
	return a, nil
}

func (s *Store) ListSkillProgress(ctx context.Context, profileID string) ([]domain.SkillProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT profile_id, skill, started_at, hours_logged, completed_resources
FROM skill_progress WHERE profile_id = ? ORDER BY skill;`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list skill progress: %w", err)
	}
	defer rows.Close()

	var out []domain.SkillProgress
	for rows.Next() {
		var sp domain.SkillProgress
		var started string
		if err := rows.Scan(&sp.ProfileID, &sp.Skill, &started, &sp.HoursLogged, &sp.CompletedResources); err != nil {
			return nil, fmt.Errorf("scan skill progress: %w", err)
		}
		sp.StartedAt = decodeTimePtr(started)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// SaveSkillProgress is not part of the store contract; the engine only
// reads progress. It exists for the progress importer and tests.
func (s *Store) SaveSkillProgress(ctx context.Context, sp domain.SkillProgress) error {
	if sp.ProfileID == "" || sp.Skill == "" {
		return errors.New("save skill progress: empty profile or skill")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO skill_progress (profile_id, skill, started_at, hours_logged, completed_resources)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(profile_id, skill) DO UPDATE SET
	started_at          = excluded.started_at,
	hours_logged        = excluded.hours_logged,
	completed_resources = excluded.completed_resources;`,
		sp.ProfileID, sp.Skill, encodeTimePtr(sp.StartedAt), sp.HoursLogged, sp.CompletedResources)
	if err != nil {
		return busyErr(fmt.Errorf("save skill progress: %w", err))
	}
	return nil
}
