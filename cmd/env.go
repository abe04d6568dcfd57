package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shfb-analytics/accessmap/internal/geometry"
	"github.com/shfb-analytics/accessmap/internal/model"
	"github.com/shfb-analytics/accessmap/internal/query"
	"github.com/shfb-analytics/accessmap/internal/scores"
)

// queryEnv holds the loaded stores and the engine used by the query, resolve,
// export, and serve commands.
type queryEnv struct {
	Engine *query.Engine
}

// initEngine loads scores, geometry, the county map, and the allow-list, then
// builds the engine. Scores and geometry load concurrently since both can take
// a while for the full tract set.
func initEngine(ctx context.Context) (*queryEnv, error) {
	var (
		records   []model.ScoreRecord
		regions   []model.Region
		countyMap map[string]string
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		records, err = loadScores(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		regions, err = loadRegions(ctx)
		return err
	})

	g.Go(func() error {
		if cfg.Geometry.CountyMapPath == "" {
			return nil
		}
		f, err := os.Open(cfg.Geometry.CountyMapPath)
		if err != nil {
			return eris.Wrap(err, "open county map")
		}
		defer f.Close()
		countyMap, err = geometry.LoadCountyMap(f, geometry.CountyMapOptions{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	allow, err := loadAllowList()
	if err != nil {
		return nil, err
	}

	scoreStore, err := scores.NewStore(records)
	if err != nil {
		return nil, err
	}
	geoStore, err := geometry.NewStore(regions)
	if err != nil {
		return nil, err
	}

	zap.L().Info("stores loaded",
		zap.Int("score_records", scoreStore.Len()),
		zap.Int("regions", geoStore.Len()),
		zap.Int("county_map_entries", len(countyMap)),
	)

	eng, err := query.NewEngine(scoreStore, geoStore, countyMap, allow)
	if err != nil {
		return nil, err
	}

	return &queryEnv{Engine: eng}, nil
}

func loadScores(ctx context.Context) ([]model.ScoreRecord, error) {
	switch cfg.Scores.Source {
	case "csv":
		f, err := os.Open(cfg.Scores.CSVPath)
		if err != nil {
			return nil, eris.Wrap(err, "open scores csv")
		}
		defer f.Close()
		return scores.LoadCSV(f)
	case "sqlite":
		src, err := scores.NewSQLite(cfg.Scores.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.LoadRecords(ctx)
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Scores.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "connect postgres")
		}
		defer pool.Close()
		return scores.LoadPostgres(ctx, pool)
	default:
		return nil, eris.Errorf("unknown scores source %q", cfg.Scores.Source)
	}
}

func loadRegions(ctx context.Context) ([]model.Region, error) {
	if cfg.Geometry.CachePath != "" {
		cache, err := geometry.NewCache(cfg.Geometry.CachePath)
		if err != nil {
			return nil, err
		}
		defer cache.Close()
		return cache.LoadRegions(ctx)
	}
	return geometry.LoadShapefile(cfg.Geometry.ShapefilePath, geometry.ShapefileOptions{
		IDField:     cfg.Geometry.IDField,
		CountyField: cfg.Geometry.CountyField,
	})
}

func loadAllowList() (*geometry.AllowList, error) {
	if cfg.Counties.Disabled {
		return nil, nil
	}
	if cfg.Counties.AllowListPath != "" {
		return geometry.LoadAllowList(cfg.Counties.AllowListPath)
	}
	return geometry.DefaultAllowList(), nil
}
