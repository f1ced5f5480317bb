package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/store"
)

const selectPostings = `
SELECT url_hash, title, company, url, location, remote, work_type, seniority,
       salary_min, salary_max, salary_currency, skills, description, source_id,
       posted_at, first_seen_at, last_seen_at, active
FROM postings`

// UpsertPosting inserts the posting keyed by its URL hash, or refreshes
// the mutable fields of the existing row. The store owns the seen
// timestamps: first_seen_at is written once at creation, last_seen_at on
// every sighting.
func (s *Store) UpsertPosting(ctx context.Context, p domain.JobPosting) (store.Outcome, error) {
	if p.URLHash == "" {
		return "", errors.New("upsert posting: empty url hash")
	}
	now := encodeTime(time.Now())
	skillsJSON, _ := json.Marshal(p.Skills)

	res, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO postings (
	url_hash, title, company, url, location, remote, work_type, seniority,
	salary_min, salary_max, salary_currency, skills, description, source_id,
	posted_at, first_seen_at, last_seen_at, active
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		p.URLHash, p.Title, p.Company, p.URL, p.Location, boolToInt(p.Remote),
		string(p.WorkType), string(p.Seniority),
		p.SalaryMin, p.SalaryMax, p.SalaryCurrency, string(skillsJSON),
		p.Description, p.SourceID, encodeTimePtr(p.PostedAt), now, now, boolToInt(p.Active),
	)
	if err != nil {
		return "", busyErr(fmt.Errorf("insert posting: %w", err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return store.OutcomeCreated, nil
	}

	res, err = s.db.ExecContext(ctx, `
UPDATE postings SET
	title = ?, company = ?, url = ?, location = ?, remote = ?, work_type = ?,
	seniority = ?, salary_min = ?, salary_max = ?, salary_currency = ?,
	skills = ?, description = ?, source_id = ?, posted_at = ?, active = ?,
	last_seen_at = ?
WHERE url_hash = ?;`,
		p.Title, p.Company, p.URL, p.Location, boolToInt(p.Remote),
		string(p.WorkType), string(p.Seniority),
		p.SalaryMin, p.SalaryMax, p.SalaryCurrency, string(skillsJSON),
		p.Description, p.SourceID, encodeTimePtr(p.PostedAt), boolToInt(p.Active), now,
		p.URLHash,
	)
	if err != nil {
		return "", busyErr(fmt.Errorf("update posting: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// row vanished between the insert and the update
		return "", fmt.Errorf("posting %s: %w", p.URLHash, domain.ErrStoreConflict)
	}
	return store.OutcomeUpdated, nil
}

func (s *Store) GetPosting(ctx context.Context, hash string) (domain.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, selectPostings+` WHERE url_hash = ?;`, hash)
	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.JobPosting{}, fmt.Errorf("posting %s: %w", hash, domain.ErrNotFound)
	}
	if err != nil {
		return domain.JobPosting{}, fmt.Errorf("get posting: %w", err)
	}
	return p, nil
}

func (s *Store) ListPostings(ctx context.Context, opts store.ListOptions) ([]domain.JobPosting, error) {
	where := []string{"1=1"}
	args := []any{}
	if opts.Source != "" {
		where = append(where, "source_id = ?")
		args = append(args, opts.Source)
	}
	if opts.ActiveOnly {
		where = append(where, "active = 1")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // no limit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`%s
WHERE %s
ORDER BY last_seen_at DESC, url_hash ASC
LIMIT ?;`, selectPostings, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (domain.JobPosting, error) {
	var (
		p          domain.JobPosting
		remote     int
		active     int
		workType   string
		seniority  string
		skillsJSON string
		postedAt   string
		firstSeen  string
		lastSeen   string
	)
	if err := row.Scan(
		&p.URLHash, &p.Title, &p.Company, &p.URL, &p.Location, &remote,
		&workType, &seniority, &p.SalaryMin, &p.SalaryMax, &p.SalaryCurrency,
		&skillsJSON, &p.Description, &p.SourceID, &postedAt, &firstSeen,
		&lastSeen, &active,
	); err != nil {
		return domain.JobPosting{}, err
	}
	p.Remote = remote != 0
	p.Active = active != 0
	p.WorkType = domain.WorkType(workType)
	p.Seniority = domain.Seniority(seniority)
	_ = json.Unmarshal([]byte(skillsJSON), &p.Skills)
	p.PostedAt = decodeTimePtr(postedAt)
	p.FirstSeenAt = decodeTime(firstSeen)
	p.LastSeenAt = decodeTime(lastSeen)
	return p, nil
}
