package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "accessmap",
	Short: "Food access score map backend",
	Long:  "Loads precomputed tract-level access scores and census geometry, filters by scenario, and serves colored choropleth data with agency breakdowns.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
