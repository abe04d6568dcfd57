package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/model"
	"github.com/shfb-analytics/accessmap/internal/scores"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testEngine(t *testing.T, records []model.ScoreRecord) *Engine {
	t.Helper()
	store, err := scores.NewStore(records)
	require.NoError(t, err)
	eng, err := NewEngine(store, testGeometry(t), nil, nil)
	require.NoError(t, err)
	return eng
}

func testSelection() model.QuerySelection {
	return model.QuerySelection{UrbanThreshold: 10, RuralThreshold: 20, Week: 3, Day: "Tue", Hour: 9}
}

func TestEngineRunExactHour(t *testing.T) {
	eng := testEngine(t, []model.ScoreRecord{
		scoreRecord("37001", 9, 4.0),
		scoreRecord("37001", 18, 8.0),
	})

	res, err := eng.Run(testSelection(), Options{})
	require.NoError(t, err)

	assert.False(t, res.Empty)
	assert.Equal(t, "Week 3, Tue, 09:00", res.Title)
	require.Len(t, res.Regions, 3)

	byID := map[string]float64{}
	for _, r := range res.Regions {
		byID[r.RegionID] = r.AccessScore
	}
	assert.Equal(t, 4.0, byID["37001"], "only the hour-9 record contributes")
	assert.Equal(t, 0.0, byID["37003"])

	assert.Equal(t, 0.0, res.Scale.VMin)
	assert.Equal(t, 4.0, res.Scale.VMax)
}

func TestEngineRunAfterHours(t *testing.T) {
	eng := testEngine(t, []model.ScoreRecord{
		scoreRecord("37001", 9, 4.0),
		scoreRecord("37001", 17, 1.0),
		scoreRecord("37001", 18, 8.0),
	})

	sel := testSelection()
	sel.AfterHours = true
	sel.Hour = 9 // slider position ignored in after-hours mode

	res, err := eng.Run(sel, Options{})
	require.NoError(t, err)
	assert.False(t, res.Empty)
	assert.Equal(t, "After Hours (>=5PM), Week 3, Tue", res.Title)
	assert.Equal(t, 8.0, res.Scale.VMax, "union of hour >= 17 records")
}

func TestEngineRunEmptyResult(t *testing.T) {
	eng := testEngine(t, []model.ScoreRecord{scoreRecord("37001", 9, 4.0)})

	sel := testSelection()
	sel.Week = 99

	res, err := eng.Run(sel, Options{})
	require.NoError(t, err, "empty result is a state, not an error")
	assert.True(t, res.Empty)
	assert.Empty(t, res.Regions)

	_, err = eng.ResolvePoint(res, 0.5, 0.5)
	require.Error(t, err, "resolving an empty result is a caller error")
}

func TestEngineResolvePoint(t *testing.T) {
	rec := scoreRecord("37001", 9, 4.0)
	rec.TopAgencies = model.RawAgencies(
		`[{"Agency":"B","Agency_Contribution":1.0},{"Agency":"A","Agency_Contribution":2.56789}]`,
	)
	eng := testEngine(t, []model.ScoreRecord{rec})

	res, err := eng.Run(testSelection(), Options{})
	require.NoError(t, err)

	sel, err := eng.ResolvePoint(res, 0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "37001", sel.RegionID)
	assert.Equal(t, 4.0, sel.AccessScore)
	assert.False(t, sel.ParseFailed)
	require.Len(t, sel.TopAgencies, 2)
	assert.Equal(t, "A", sel.TopAgencies[0].Name, "sorted by contribution descending")
	assert.Equal(t, 2.568, sel.TopAgencies[0].Contribution, "rounded at presentation")
}

func TestEngineMalformedAgenciesDoNotBlockQuery(t *testing.T) {
	bad := scoreRecord("37001", 9, 4.0)
	bad.TopAgencies = model.RawAgencies("{not json")
	good := scoreRecord("37003", 9, 2.0)

	eng := testEngine(t, []model.ScoreRecord{bad, good})

	res, err := eng.Run(testSelection(), Options{})
	require.NoError(t, err)
	require.Len(t, res.Regions, 3, "the malformed record never blocks the rest")

	sel, err := eng.ResolvePoint(res, 0.5, 0.5)
	require.NoError(t, err)
	assert.True(t, sel.ParseFailed)
	assert.Empty(t, sel.TopAgencies)

	other, err := Describe(res.Regions, "37003")
	require.NoError(t, err)
	assert.False(t, other.ParseFailed)
}

func TestDescribeUnknownRegion(t *testing.T) {
	eng := testEngine(t, []model.ScoreRecord{scoreRecord("37001", 9, 4.0)})
	res, err := eng.Run(testSelection(), Options{})
	require.NoError(t, err)

	_, err = Describe(res.Regions, "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown region id")
}
