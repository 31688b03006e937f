package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	label TEXT,
	created_at INTEGER NOT NULL,
	total_docs INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_kind_created ON runs(kind, created_at);

CREATE TABLE IF NOT EXISTS run_scores (
	run_id TEXT NOT NULL,
	category TEXT NOT NULL,
	count INTEGER NOT NULL,
	share REAL NOT NULL,
	satisfaction REAL NOT NULL,
	PRIMARY KEY(run_id, category),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_scores_category ON run_scores(category);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun upserts the run row and replaces its scores in one transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" || r.Kind == "" {
		return fmt.Errorf("%w: run needs an id and a kind", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, kind, label, created_at, total_docs)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	kind=excluded.kind,
	label=excluded.label,
	created_at=excluded.created_at,
	total_docs=excluded.total_docs;
`, r.ID, r.Kind, r.Label, r.CreatedAt.UTC().UnixNano(), r.TotalDocs)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_scores WHERE run_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_scores (run_id, category, count, share, satisfaction)
VALUES (?, ?, ?, ?, ?);
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sc := range r.Scores {
		if _, err := stmt.ExecContext(ctx, r.ID, sc.Category, sc.Count, sc.Share, sc.Satisfaction); err != nil {
			return fmt.Errorf("insert score %s: %w", sc.Category, err)
		}
	}
	return tx.Commit()
}

// GetRun loads a run with its scores.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var r store.Run
	var created int64
	var label sql.NullString
	err := s.db.QueryRowContext(ctx, `
SELECT id, kind, label, created_at, total_docs FROM runs WHERE id = ?;
`, id).Scan(&r.ID, &r.Kind, &label, &created, &r.TotalDocs)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	r.Label = label.String
	r.CreatedAt = time.Unix(0, created).UTC()

	if r.Scores, err = s.scores(ctx, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func (s *sqliteStore) scores(ctx context.Context, runID string) ([]store.CategoryScore, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT category, count, share, satisfaction
FROM run_scores
WHERE run_id = ?
ORDER BY share DESC, category ASC;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.CategoryScore
	for rows.Next() {
		var sc store.CategoryScore
		if err := rows.Scan(&sc.Category, &sc.Count, &sc.Share, &sc.Satisfaction); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ListRuns returns run headers newest first, with scores attached.
func (s *sqliteStore) ListRuns(ctx context.Context, kind string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, kind, label, created_at, total_docs
FROM runs
WHERE (? = '' OR kind = ?)
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, kind, kind, limit)
	if err != nil {
		return nil, err
	}

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var created int64
		var label sql.NullString
		if err := rows.Scan(&r.ID, &r.Kind, &label, &created, &r.TotalDocs); err != nil {
			rows.Close()
			return nil, err
		}
		r.Label = label.String
		r.CreatedAt = time.Unix(0, created).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		if runs[i].Scores, err = s.scores(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// CategoryHistory returns the newest limit points, reordered oldest first.
func (s *sqliteStore) CategoryHistory(ctx context.Context, kind, category string, limit int) ([]store.Point, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.label, r.created_at, sc.category, sc.count, sc.share, sc.satisfaction
FROM run_scores sc
JOIN runs r ON r.id = sc.run_id
WHERE r.kind = ? AND sc.category = ?
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?;
`, kind, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []store.Point
	for rows.Next() {
		var p store.Point
		var created int64
		var label sql.NullString
		if err := rows.Scan(&p.RunID, &label, &created, &p.Category, &p.Count, &p.Share, &p.Satisfaction); err != nil {
			return nil, err
		}
		p.Label = label.String
		p.CreatedAt = time.Unix(0, created).UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}
