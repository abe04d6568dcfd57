package scores

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// Pool is the subset of pgxpool.Pool the Postgres score loader needs.
// pgxmock satisfies it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const postgresSelect = `
	SELECT geoid, urban_threshold, rural_threshold, week, day, hour, access_score,
	       COALESCE(top_agencies, '[]')
	FROM access_scores`

// LoadPostgres reads the full score table from a Postgres-backed upstream.
func LoadPostgres(ctx context.Context, pool Pool) ([]model.ScoreRecord, error) {
	rows, err := pool.Query(ctx, postgresSelect)
	if err != nil {
		return nil, eris.Wrap(err, "scores: postgres query")
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
			return nil, eris.Wrap(err, "scores: postgres scan row")
		}
		r.TopAgencies = model.RawAgencies(raw)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "scores: postgres iterate rows")
	}
	return records, nil
}
