package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySelectionTitle(t *testing.T) {
	tests := []struct {
		name     string
		sel      QuerySelection
		expected string
	}{
		{
			name:     "exact hour",
			sel:      QuerySelection{Week: 3, Day: "Tue", Hour: 9},
			expected: "Week 3, Tue, 09:00",
		},
		{
			name:     "exact afternoon hour",
			sel:      QuerySelection{Week: 1, Day: "Fri", Hour: 18},
			expected: "Week 1, Fri, 18:00",
		},
		{
			name:     "after hours ignores hour",
			sel:      QuerySelection{Week: 3, Day: "Tue", Hour: 9, AfterHours: true},
			expected: "After Hours (>=5PM), Week 3, Tue",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sel.Title())
		})
	}
}

func TestQuerySelectionMatches(t *testing.T) {
	sel := QuerySelection{UrbanThreshold: 10, RuralThreshold: 20, Week: 3, Day: "Tue", Hour: 9}
	rec := ScoreRecord{RegionID: "37001", UrbanThreshold: 10, RuralThreshold: 20, Week: 3, Day: "Tue", Hour: 9}

	assert.True(t, sel.Matches(rec))

	evening := rec
	evening.Hour = 18
	assert.False(t, sel.Matches(evening))

	after := sel
	after.AfterHours = true
	assert.True(t, after.Matches(evening), "after-hours mode matches hour 18")
	assert.False(t, after.Matches(rec), "after-hours mode excludes hour 9 even with slider at 9")

	wrongDay := rec
	wrongDay.Day = "Wed"
	assert.False(t, sel.Matches(wrongDay))

	wrongThreshold := rec
	wrongThreshold.UrbanThreshold = 15
	assert.False(t, sel.Matches(wrongThreshold))
}

func TestAgencyPayloadVariants(t *testing.T) {
	structured := StructuredAgencies([]AgencyShare{{Name: "Agency A", Contribution: 1.5}})
	assert.True(t, structured.Structured)
	assert.Len(t, structured.Shares, 1)

	raw := RawAgencies(`[{"Agency":"A","Agency_Contribution":1.5}]`)
	assert.False(t, raw.Structured)
	assert.NotEmpty(t, raw.Raw)
}
