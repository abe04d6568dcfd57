package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/geometry"
	"github.com/shfb-analytics/accessmap/internal/scores"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import source data into the local SQLite stores",
}

var (
	loadScoresCSV string
	loadScoresDB  string
)

var loadScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Import the precomputed score CSV into SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		csvPath := loadScoresCSV
		if csvPath == "" {
			csvPath = cfg.Scores.CSVPath
		}
		dbPath := loadScoresDB
		if dbPath == "" {
			dbPath = cfg.Scores.SQLitePath
		}

		f, err := os.Open(csvPath)
		if err != nil {
			return eris.Wrap(err, "open scores csv")
		}
		defer f.Close()

		records, err := scores.LoadCSV(f)
		if err != nil {
			return err
		}

		src, err := scores.NewSQLite(dbPath)
		if err != nil {
			return err
		}
		defer src.Close()

		if err := src.Migrate(ctx); err != nil {
			return err
		}
		n, err := src.ImportRecords(ctx, records)
		if err != nil {
			return err
		}

		zap.L().Info("scores imported",
			zap.String("csv", csvPath),
			zap.String("db", dbPath),
			zap.Int64("rows", n),
		)
		return nil
	},
}

var (
	loadGeomShapefile string
	loadGeomDB        string
)

var loadGeometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Import tract shapefile geometry into the SQLite cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		shpPath := loadGeomShapefile
		if shpPath == "" {
			shpPath = cfg.Geometry.ShapefilePath
		}
		dbPath := loadGeomDB
		if dbPath == "" {
			dbPath = cfg.Geometry.CachePath
		}
		if dbPath == "" {
			return eris.New("geometry cache path not set (--db or geometry.cache_path)")
		}

		regions, err := geometry.LoadShapefile(shpPath, geometry.ShapefileOptions{
			IDField:     cfg.Geometry.IDField,
			CountyField: cfg.Geometry.CountyField,
		})
		if err != nil {
			return err
		}

		cache, err := geometry.NewCache(dbPath)
		if err != nil {
			return err
		}
		defer cache.Close()

		if err := cache.Migrate(ctx); err != nil {
			return err
		}
		n, err := cache.ImportRegions(ctx, regions)
		if err != nil {
			return err
		}

		zap.L().Info("geometry imported",
			zap.String("shapefile", shpPath),
			zap.String("db", dbPath),
			zap.Int64("regions", n),
		)
		return nil
	},
}

func init() {
	loadScoresCmd.Flags().StringVar(&loadScoresCSV, "csv", "", "score CSV path (default from config)")
	loadScoresCmd.Flags().StringVar(&loadScoresDB, "db", "", "SQLite path (default from config)")

	loadGeometryCmd.Flags().StringVar(&loadGeomShapefile, "shapefile", "", "tract shapefile path (default from config)")
	loadGeometryCmd.Flags().StringVar(&loadGeomDB, "db", "", "geometry cache path (default from config)")

	loadCmd.AddCommand(loadScoresCmd)
	loadCmd.AddCommand(loadGeometryCmd)
	rootCmd.AddCommand(loadCmd)
}
