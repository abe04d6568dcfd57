package scores

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// SQLiteSource reads and writes the score table in a local SQLite cache
// using the pure-Go modernc.org/sqlite driver.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLite opens the SQLite score cache at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "scores: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "scores: sqlite exec %s", pragma)
		}
	}
	return &SQLiteSource{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS access_scores (
	geoid           TEXT NOT NULL,
	urban_threshold REAL NOT NULL,
	rural_threshold REAL NOT NULL,
	week            INTEGER NOT NULL,
	day             TEXT NOT NULL,
	hour            INTEGER NOT NULL,
	access_score    REAL NOT NULL,
	top_agencies    TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (geoid, urban_threshold, rural_threshold, week, day, hour)
);

CREATE INDEX IF NOT EXISTS idx_access_scores_scenario
	ON access_scores(urban_threshold, rural_threshold, week, day);
`

// Migrate creates the score table if it does not exist.
func (s *SQLiteSource) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "scores: sqlite migrate")
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// ImportRecords bulk-inserts records inside one transaction, replacing any
// existing row for the same (region, scenario) tuple.
func (s *SQLiteSource) ImportRecords(ctx context.Context, records []model.ScoreRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "scores: sqlite begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO access_scores
			(geoid, urban_threshold, rural_threshold, week, day, hour, access_score, top_agencies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "scores: sqlite prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range records {
		raw := r.TopAgencies.Raw
		if r.TopAgencies.Structured || raw == "" {
			raw = "[]"
		}
		if _, err := stmt.ExecContext(ctx,
			r.RegionID, r.UrbanThreshold, r.RuralThreshold, r.Week, r.Day, r.Hour, r.AccessScore, raw,
		); err != nil {
			return n, eris.Wrapf(err, "scores: sqlite insert region %s", r.RegionID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "scores: sqlite commit")
	}
	return n, nil
}

// LoadRecords reads the full score table from the cache.
func (s *SQLiteSource) LoadRecords(ctx context.Context) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT geoid, urban_threshold, rural_threshold, week, day, hour, access_score, top_agencies
		FROM access_scores`)
	if err != nil {
		return nil, eris.Wrap(err, "scores: sqlite query")
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var r model.ScoreRecord
		var raw string
		if err := rows.Scan(
			&r.RegionID, &r.UrbanThreshold, &r.RuralThreshold,
			&r.Week, &r.Day, &r.Hour, &r.AccessScore, &raw,
		); err != nil {
			return nil, eris.Wrap(err, "scores: sqlite scan row")
		}
		r.TopAgencies = model.RawAgencies(raw)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "scores: sqlite iterate rows")
	}
	return records, nil
}
