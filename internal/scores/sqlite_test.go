package scores

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/accessmap/internal/model"
)

func openTestSQLite(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLite(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	require.NoError(t, src.Migrate(context.Background()))
	return src
}

func TestSQLiteImportAndLoad(t *testing.T) {
	src := openTestSQLite(t)
	ctx := context.Background()

	in := []model.ScoreRecord{
		record("37001", 9, 1.25),
		record("37003", 18, 2.5),
	}
	in[1].TopAgencies = model.RawAgencies(`[{"Agency":"A","Agency_Contribution":2.5}]`)

	n, err := src.ImportRecords(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	out, err := src.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := map[string]model.ScoreRecord{}
	for _, r := range out {
		byID[r.RegionID] = r
	}
	assert.Equal(t, 1.25, byID["37001"].AccessScore)
	assert.Equal(t, "[]", byID["37001"].TopAgencies.Raw)
	assert.Contains(t, byID["37003"].TopAgencies.Raw, "Agency_Contribution")
}

func TestSQLiteImportReplacesDuplicateScenario(t *testing.T) {
	src := openTestSQLite(t)
	ctx := context.Background()

	_, err := src.ImportRecords(ctx, []model.ScoreRecord{record("37001", 9, 1.0)})
	require.NoError(t, err)
	_, err = src.ImportRecords(ctx, []model.ScoreRecord{record("37001", 9, 9.0)})
	require.NoError(t, err)

	out, err := src.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1, "primary key keeps at most one row per exact scenario")
	assert.Equal(t, 9.0, out[0].AccessScore)
}
