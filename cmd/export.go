package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/query"
)

var (
	exportFlags selectionFlags
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a scenario query to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := exportFlags.selection()
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}

		res, err := env.Engine.Run(sel, engineOptions(exportFlags.ramp))
		if err != nil {
			return err
		}
		if res.Empty {
			fmt.Println("No access score records match this selection; nothing to export.")
			return nil
		}

		if err := query.ExportXLSX(res, exportOut); err != nil {
			return err
		}

		zap.L().Info("export written",
			zap.String("path", exportOut),
			zap.Int("regions", len(res.Regions)),
		)
		fmt.Printf("Wrote %s (%d regions)\n", exportOut, len(res.Regions))

		return nil
	},
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "access_scores.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
