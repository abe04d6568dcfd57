package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/accessmap/internal/config"
)

func TestSelectionFlags(t *testing.T) {
	f := selectionFlags{urban: 10, rural: 20, week: 2, day: "Mon", hour: 9}
	sel, err := f.selection()
	require.NoError(t, err)
	assert.Equal(t, "Week 2, Mon, 09:00", sel.Title())

	f.hour = 24
	_, err = f.selection()
	require.Error(t, err)

	// after-hours mode ignores the hour entirely
	f.afterHours = true
	sel, err = f.selection()
	require.NoError(t, err)
	assert.Equal(t, "After Hours (>=5PM), Week 2, Mon", sel.Title())
}

func TestEngineOptions(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = &config.Config{Query: config.QueryConfig{Ramp: "Greens", TopN: 10}}

	opts := engineOptions("")
	assert.Equal(t, "Greens", opts.Ramp)
	assert.Equal(t, 10, opts.TopN)

	opts = engineOptions("Viridis")
	assert.Equal(t, "Viridis", opts.Ramp)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"query", "resolve", "serve", "export", "load"} {
		assert.True(t, names[want], "command %s registered", want)
	}
}
