package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shfb-analytics/accessmap/internal/query"
)

var queryFlags selectionFlags

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a scenario query and print the region rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := queryFlags.selection()
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}

		res, err := env.Engine.Run(sel, engineOptions(queryFlags.ramp))
		if err != nil {
			return err
		}

		fmt.Printf("Access Score Map: %s\n", res.Title)
		if res.Empty {
			fmt.Println("No access score records match this selection.")
			return nil
		}

		fmt.Printf("Regions: %d  Scale: %.2f - %.2f\n\n", len(res.Regions), res.Scale.VMin, res.Scale.VMax)
		printRanking("Top Regions", res.Top)
		printRanking("Bottom Regions", res.Bottom)

		return nil
	},
}

func init() {
	queryFlags.register(queryCmd)
	rootCmd.AddCommand(queryCmd)
}

// engineOptions applies the config defaults with an optional ramp override.
func engineOptions(ramp string) query.Options {
	opts := query.Options{Ramp: cfg.Query.Ramp, TopN: cfg.Query.TopN}
	if ramp != "" {
		opts.Ramp = ramp
	}
	return opts
}

func printRanking(header string, rows []query.Ranked) {
	fmt.Println(header)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GEOID\tCOUNTY\tSCORE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", r.RegionID, r.CountyLabel, r.AccessScore)
	}
	w.Flush()
	fmt.Println()
}
