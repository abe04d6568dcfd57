package scores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/accessmap/internal/model"
)

func record(region string, hour int, score float64) model.ScoreRecord {
	return model.ScoreRecord{
		RegionID:       region,
		UrbanThreshold: 10,
		RuralThreshold: 20,
		Week:           3,
		Day:            "Tue",
		Hour:           hour,
		AccessScore:    score,
		TopAgencies:    model.RawAgencies("[]"),
	}
}

func testSelection() model.QuerySelection {
	return model.QuerySelection{UrbanThreshold: 10, RuralThreshold: 20, Week: 3, Day: "Tue", Hour: 9}
}

func TestFilterExactHour(t *testing.T) {
	store, err := NewStore([]model.ScoreRecord{
		record("37001", 9, 1.0),
		record("37001", 18, 2.0),
		record("37003", 9, 3.0),
	})
	require.NoError(t, err)

	got, ok := store.Filter(testSelection())
	require.True(t, ok)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, 9, r.Hour)
	}
}

func TestFilterAfterHours(t *testing.T) {
	store, err := NewStore([]model.ScoreRecord{
		record("37001", 9, 1.0),
		record("37001", 17, 2.0),
		record("37001", 18, 3.0),
		record("37001", 23, 4.0),
	})
	require.NoError(t, err)

	sel := testSelection()
	sel.AfterHours = true
	// Slider position must be ignored in after-hours mode.
	sel.Hour = 9

	got, ok := store.Filter(sel)
	require.True(t, ok)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Hour, model.AfterHoursStart)
	}
}

func TestFilterSoundAndComplete(t *testing.T) {
	all := []model.ScoreRecord{
		record("37001", 9, 1.0),
		record("37001", 10, 1.5),
		record("37003", 9, 3.0),
		record("37005", 17, 0.5),
	}
	store, err := NewStore(all)
	require.NoError(t, err)

	sel := testSelection()
	got, _ := store.Filter(sel)

	// Soundness: every returned record satisfies every predicate.
	for _, r := range got {
		assert.True(t, sel.Matches(r))
	}

	// Completeness: no matching input record is excluded.
	var want int
	for _, r := range all {
		if sel.Matches(r) {
			want++
		}
	}
	assert.Len(t, got, want)
}

func TestFilterIdempotent(t *testing.T) {
	store, err := NewStore([]model.ScoreRecord{
		record("37001", 9, 1.0),
		record("37003", 9, 3.0),
		record("37005", 18, 2.0),
	})
	require.NoError(t, err)

	sel := testSelection()
	first, ok := store.Filter(sel)
	require.True(t, ok)

	refiltered, err := NewStore(first)
	require.NoError(t, err)
	second, ok := refiltered.Filter(sel)
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestFilterEmptyResult(t *testing.T) {
	store, err := NewStore([]model.ScoreRecord{record("37001", 9, 1.0)})
	require.NoError(t, err)

	sel := testSelection()
	sel.Week = 99

	got, ok := store.Filter(sel)
	assert.False(t, ok, "no match must be signalled, not raised")
	assert.Empty(t, got)
}

func TestNewStoreRejectsDuplicates(t *testing.T) {
	_, err := NewStore([]model.ScoreRecord{
		record("37001", 9, 1.0),
		record("37001", 9, 2.0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate record")
}

func TestDistinctValues(t *testing.T) {
	a := record("37001", 9, 1.0)
	b := record("37001", 10, 1.0)
	b.UrbanThreshold = 15
	b.Week = 1
	b.Day = "Fri"
	store, err := NewStore([]model.ScoreRecord{a, b})
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 15}, store.UrbanThresholds())
	assert.Equal(t, []float64{20}, store.RuralThresholds())
	assert.Equal(t, []int{1, 3}, store.Weeks())
	assert.Equal(t, []string{"Fri", "Tue"}, store.Days())
	assert.Equal(t, 2, store.Len())
}
