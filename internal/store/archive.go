package store

import (
	"context"
	"database/sql"
	"time"

	"jobalert/internal/domain"
)

// The archive is a history of every posting a run has seen, keyed on the
// source identifier. It never feeds novelty detection; the known-jobs file
// stays the single source of truth for that.

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS postings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source_id TEXT NOT NULL,
  title TEXT NOT NULL,
  location TEXT NOT NULL,
  url TEXT NOT NULL,
  source TEXT NOT NULL,
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_postings_source_id
ON postings(source_id);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_first_seen
ON postings(first_seen DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertPostingIgnore records a posting if its source id is unseen.
func InsertPostingIgnore(ctx context.Context, db *sql.DB, p domain.JobPosting) (added bool, err error) {
	seen := p.FetchedAt
	if seen.IsZero() {
		seen = time.Now().UTC()
	}

	res, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO postings(source_id, title, location, url, source, first_seen)
VALUES(?,?,?,?,?,?);`,
		p.ID, p.Title, p.Location, p.URL, p.Source, seen.Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func CountPostings(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings;`).Scan(&n)
	return n, err
}

// RecentPostings lists the newest archive entries, newest first.
func RecentPostings(ctx context.Context, db *sql.DB, limit int) ([]domain.JobPosting, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
SELECT source_id, title, location, url, source, first_seen
FROM postings
ORDER BY first_seen DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		var p domain.JobPosting
		var seenStr string
		if err := rows.Scan(&p.ID, &p.Title, &p.Location, &p.URL, &p.Source, &seenStr); err != nil {
			return nil, err
		}
		p.FetchedAt, _ = time.Parse(time.RFC3339, seenStr)
		out = append(out, p)
	}
	return out, rows.Err()
}
