// Package query runs one filter-join-scale pass over the cached stores and
// shapes the result for rendering collaborators.
package query

import (
	"sort"

	"github.com/shfb-analytics/accessmap/internal/geometry"
	"github.com/shfb-analytics/accessmap/internal/model"
)

// UnknownCounty is reported when neither the county map nor the geometry
// carries a label for a region.
const UnknownCounty = "Unknown"

// Join merges filtered score records into the region geometry set.
//
// The join is anchored on geometry: every region in scope appears exactly
// once, and a region with no matching score record is zero-filled rather
// than dropped. County labels prefer the region-to-county map, then the
// geometry-side label, then UnknownCounty. When an allow-list is given,
// regions whose normalized county is not listed are excluded entirely.
// Output is ordered by ascending region id.
func Join(
	records []model.ScoreRecord,
	geo *geometry.Store,
	countyMap map[string]string,
	allow *geometry.AllowList,
) []model.JoinedRegion {
	byRegion := make(map[string]model.ScoreRecord, len(records))
	for _, r := range records {
		byRegion[r.RegionID] = r
	}

	out := make([]model.JoinedRegion, 0, geo.Len())
	for _, region := range geo.Regions() {
		if allow != nil && !allow.Contains(region.CountyLabel) {
			continue
		}

		j := model.JoinedRegion{
			RegionID:    region.ID,
			Geometry:    region.Geometry,
			CountyLabel: countyLabel(region, countyMap),
			TopAgencies: model.RawAgencies("[]"),
		}
		if rec, ok := byRegion[region.ID]; ok {
			j.AccessScore = rec.AccessScore
			j.TopAgencies = rec.TopAgencies
		}
		out = append(out, j)
	}

	sort.Slice(out, func(i, k int) bool { return out[i].RegionID < out[k].RegionID })
	return out
}

func countyLabel(region model.Region, countyMap map[string]string) string {
	if c, ok := countyMap[region.ID]; ok && c != "" {
		return c
	}
	if region.CountyLabel != "" {
		return geometry.NormalizeCounty(region.CountyLabel)
	}
	return UnknownCounty
}
