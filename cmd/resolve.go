package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resolveFlags selectionFlags
	resolveLng   float64
	resolveLat   float64
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a coordinate to its region and print the agency breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := resolveFlags.selection()
		if err != nil {
			return err
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}

		res, err := env.Engine.Run(sel, engineOptions(resolveFlags.ramp))
		if err != nil {
			return err
		}
		if res.Empty {
			fmt.Println("No access score records match this selection.")
			return nil
		}

		detail, err := env.Engine.ResolvePoint(res, resolveLng, resolveLat)
		if err != nil {
			return err
		}

		fmt.Printf("GEOID:  %s\n", detail.RegionID)
		fmt.Printf("County: %s\n", detail.CountyLabel)
		fmt.Printf("Score:  %.2f\n", detail.AccessScore)
		if detail.ParseFailed {
			fmt.Println("Agency breakdown unavailable (malformed data).")
			return nil
		}
		if len(detail.TopAgencies) == 0 {
			fmt.Println("No contributing agencies recorded.")
			return nil
		}
		fmt.Println("Top agencies:")
		for _, a := range detail.TopAgencies {
			fmt.Printf("  %-40s %.3f\n", a.Name, a.Contribution)
		}

		return nil
	},
}

func init() {
	resolveFlags.register(resolveCmd)
	resolveCmd.Flags().Float64Var(&resolveLng, "lng", 0, "longitude of the clicked point (required)")
	resolveCmd.Flags().Float64Var(&resolveLat, "lat", 0, "latitude of the clicked point (required)")
	_ = resolveCmd.MarkFlagRequired("lng")
	_ = resolveCmd.MarkFlagRequired("lat")
	rootCmd.AddCommand(resolveCmd)
}
