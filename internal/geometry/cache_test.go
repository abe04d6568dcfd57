package geometry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/accessmap/internal/model"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "geom.db"))
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Migrate(ctx))

	in := []model.Region{
		{ID: "37001020100", Geometry: square(-80.0, 36.0, SRID), CountyLabel: "Alamance County"},
		{ID: "37067000100", Geometry: square(-80.3, 36.1, SRID), CountyLabel: "Forsyth County"},
	}
	n, err := cache.ImportRegions(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	out, err := cache.LoadRegions(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := map[string]model.Region{}
	for _, r := range out {
		byID[r.ID] = r
	}
	got := byID["37001020100"]
	assert.Equal(t, "Alamance County", got.CountyLabel)
	require.NotNil(t, got.Geometry)
	assert.Equal(t, SRID, got.Geometry.SRID())
	assert.Equal(t, 1, got.Geometry.NumPolygons())
	assert.InDelta(t, -80.0, got.Geometry.Bounds().Min(0), 1e-9)

	// Reimport replaces rather than duplicates.
	_, err = cache.ImportRegions(ctx, in[:1])
	require.NoError(t, err)
	out, err = cache.LoadRegions(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
