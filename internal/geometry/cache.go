package geometry

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	_ "modernc.org/sqlite"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// Cache persists region geometries in a local SQLite file as EWKB blobs so
// repeated startups skip the shapefile parse.
type Cache struct {
	db *sql.DB
}

// NewCache opens the geometry cache at the given path.
func NewCache(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geometry: sqlite exec %s", pragma)
		}
	}
	return &Cache{db: db}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS regions (
	geoid  TEXT PRIMARY KEY,
	county TEXT NOT NULL DEFAULT '',
	geom   BLOB NOT NULL
);
`

// Migrate creates the region table if it does not exist.
func (c *Cache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "geometry: sqlite migrate")
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ImportRegions writes regions into the cache, replacing existing rows.
func (c *Cache) ImportRegions(ctx context.Context, regions []model.Region) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "geometry: sqlite begin")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO regions (geoid, county, geom) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "geometry: sqlite prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, r := range regions {
		data, err := ewkb.Marshal(r.Geometry, ewkb.NDR)
		if err != nil {
			return n, eris.Wrapf(err, "geometry: encode region %s", r.ID)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.CountyLabel, data); err != nil {
			return n, eris.Wrapf(err, "geometry: sqlite insert region %s", r.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return n, eris.Wrap(err, "geometry: sqlite commit")
	}
	return n, nil
}

// LoadRegions reads all cached regions, decoding their EWKB geometries.
func (c *Cache) LoadRegions(ctx context.Context) ([]model.Region, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT geoid, county, geom FROM regions`)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: sqlite query")
	}
	defer rows.Close()

	var regions []model.Region
	for rows.Next() {
		var r model.Region
		var data []byte
		if err := rows.Scan(&r.ID, &r.CountyLabel, &data); err != nil {
			return nil, eris.Wrap(err, "geometry: sqlite scan row")
		}
		g, err := ewkb.Unmarshal(data)
		if err != nil {
			return nil, eris.Wrapf(err, "geometry: decode region %s", r.ID)
		}
		mp, ok := g.(*geom.MultiPolygon)
		if !ok {
			return nil, eris.Errorf("geometry: region %s is %T, want multipolygon", r.ID, g)
		}
		r.Geometry = mp
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "geometry: sqlite iterate rows")
	}
	return regions, nil
}
