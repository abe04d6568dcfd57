// Package resolve maps an arbitrary map coordinate to the most plausible
// region: polygon containment first, nearest centroid as the fallback.
//
// Containment is boundary-inclusive: a point exactly on a ring counts as
// inside. Interactive map widgets report coordinates that round, snap, or
// land on shared edges and unrendered gaps, so the centroid fallback
// guarantees a usable answer for any point; "no selection" is never an
// outcome.
package resolve

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// ErrNoRegions is returned when Resolve is called with an empty region set.
// That is a caller error: queries with an empty join must stop before
// resolution.
var ErrNoRegions = eris.New("resolve: no joined regions")

// Resolve maps a (lng, lat) coordinate to a region id by linear scan.
//
// Order of precedence:
//  1. regions whose polygon contains the point, smallest region id wins;
//  2. otherwise the region with the nearest centroid by squared Euclidean
//     distance in degrees, ties broken by smallest region id.
func Resolve(regions []model.JoinedRegion, lng, lat float64) (string, error) {
	if len(regions) == 0 {
		return "", ErrNoRegions
	}
	p := geom.Coord{lng, lat}

	containedID := ""
	for _, r := range regions {
		if !Contains(r.Geometry, p) {
			continue
		}
		if containedID == "" || r.RegionID < containedID {
			containedID = r.RegionID
		}
	}
	if containedID != "" {
		return containedID, nil
	}

	bestID := ""
	bestDist := 0.0
	for _, r := range regions {
		c := Centroid(r.Geometry)
		d := sqDist(p, c)
		if bestID == "" || d < bestDist || (d == bestDist && r.RegionID < bestID) {
			bestID = r.RegionID
			bestDist = d
		}
	}
	return bestID, nil
}

// Contains reports whether the multipolygon contains the point,
// boundary-inclusive.
func Contains(mp *geom.MultiPolygon, p geom.Coord) bool {
	if mp == nil {
		return false
	}
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		switch xy.LocatePointInRing(poly.Layout(), p, poly.LinearRing(0).FlatCoords()) {
		case location.Exterior:
			continue
		case location.Boundary:
			return true
		}
		// Interior of the shell: holes exclude, but a hole boundary is
		// still part of the polygon.
		inHole := false
		for ri := 1; ri < poly.NumLinearRings(); ri++ {
			if xy.LocatePointInRing(poly.Layout(), p, poly.LinearRing(ri).FlatCoords()) == location.Interior {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// Centroid returns the area centroid of the multipolygon.
func Centroid(mp *geom.MultiPolygon) geom.Coord {
	return xy.MultiPolygonCentroid(mp)
}

func sqDist(a, b geom.Coord) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
