package geometry

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonToMultiPolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  2,
		NumPoints: 8,
		Parts:     []int32{0, 4},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0},
			{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 5},
		},
	}

	mp := polygonToMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, SRID, mp.SRID())
	assert.Equal(t, 2, mp.NumPolygons())
	assert.InDelta(t, 0.0, mp.Polygon(0).LinearRing(0).FlatCoords()[0], 1e-9)
	assert.InDelta(t, 5.0, mp.Polygon(1).LinearRing(0).FlatCoords()[0], 1e-9)
}

func TestPolygonToMultiPolygonDegenerate(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
