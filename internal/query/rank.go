package query

import (
	"math"
	"sort"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// Ranked is one row of the top/bottom tables, with the score rounded for
// display.
type Ranked struct {
	RegionID    string  `json:"region_id"`
	CountyLabel string  `json:"county"`
	AccessScore float64 `json:"access_score"`
}

// TopN returns the n highest-scoring regions, descending. Ties break by
// ascending region id so rankings are stable across runs.
func TopN(regions []model.JoinedRegion, n int) []Ranked {
	return rank(regions, n, func(a, b model.JoinedRegion) bool {
		if a.AccessScore != b.AccessScore {
			return a.AccessScore > b.AccessScore
		}
		return a.RegionID < b.RegionID
	})
}

// BottomN returns the n lowest-scoring regions, ascending, with the same
// tie-break.
func BottomN(regions []model.JoinedRegion, n int) []Ranked {
	return rank(regions, n, func(a, b model.JoinedRegion) bool {
		if a.AccessScore != b.AccessScore {
			return a.AccessScore < b.AccessScore
		}
		return a.RegionID < b.RegionID
	})
}

func rank(regions []model.JoinedRegion, n int, less func(a, b model.JoinedRegion) bool) []Ranked {
	sorted := make([]model.JoinedRegion, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Ranked, 0, n)
	for _, r := range sorted[:n] {
		out = append(out, Ranked{
			RegionID:    r.RegionID,
			CountyLabel: r.CountyLabel,
			AccessScore: math.Round(r.AccessScore*100) / 100,
		})
	}
	return out
}
