package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// selectionFlags carries the scenario filter flags shared by the query,
// resolve, and export commands.
type selectionFlags struct {
	urban      float64
	rural      float64
	week       int
	day        string
	hour       int
	afterHours bool
	ramp       string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.urban, "urban", 0, "urban distance threshold (required)")
	cmd.Flags().Float64Var(&f.rural, "rural", 0, "rural distance threshold (required)")
	cmd.Flags().IntVar(&f.week, "week", 0, "week of month (required)")
	cmd.Flags().StringVar(&f.day, "day", "", "day of week (required)")
	cmd.Flags().IntVar(&f.hour, "hour", 0, "hour of day, 0-23")
	cmd.Flags().BoolVar(&f.afterHours, "after-hours", false, "aggregate all hours from 5 PM on, ignoring --hour")
	cmd.Flags().StringVar(&f.ramp, "ramp", "", "color ramp name (default from config)")

	_ = cmd.MarkFlagRequired("urban")
	_ = cmd.MarkFlagRequired("rural")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("day")
}

func (f *selectionFlags) selection() (model.QuerySelection, error) {
	if !f.afterHours && (f.hour < 0 || f.hour > 23) {
		return model.QuerySelection{}, eris.Errorf("hour %d out of range 0-23", f.hour)
	}
	return model.QuerySelection{
		UrbanThreshold: f.urban,
		RuralThreshold: f.rural,
		Week:           f.week,
		Day:            f.day,
		Hour:           f.hour,
		AfterHours:     f.afterHours,
	}, nil
}
