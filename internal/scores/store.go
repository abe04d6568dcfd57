// Package scores holds the immutable in-memory score table and the filter
// engine that selects scenario slices from it.
package scores

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// scenarioKey identifies one scenario bucket minus the hour dimension. Hour
// is filtered per query, so bucketing on the remaining dimensions keeps
// Filter from scanning unrelated scenarios.
type scenarioKey struct {
	urban float64
	rural float64
	week  int
	day   string
}

// exactKey identifies one fully-qualified (region, scenario) tuple, used to
// enforce the at-most-one-record-per-tuple invariant at load time.
type exactKey struct {
	scenarioKey
	regionID string
	hour     int
}

// Store is a read-only view of the precomputed score table. It is populated
// once before the first query and never mutated afterwards, so concurrent
// queries may share it without locking.
type Store struct {
	records    []model.ScoreRecord
	byScenario map[scenarioKey][]model.ScoreRecord
}

// NewStore builds a Store from loaded records. It rejects duplicate
// (region, scenario) tuples since the table invariant guarantees at most one
// score per exact scenario per region.
func NewStore(records []model.ScoreRecord) (*Store, error) {
	byScenario := make(map[scenarioKey][]model.ScoreRecord)
	seen := make(map[exactKey]struct{}, len(records))

	for _, r := range records {
		sk := scenarioKey{urban: r.UrbanThreshold, rural: r.RuralThreshold, week: r.Week, day: r.Day}
		ek := exactKey{scenarioKey: sk, regionID: r.RegionID, hour: r.Hour}
		if _, dup := seen[ek]; dup {
			return nil, eris.Errorf("scores: duplicate record for region %s week %d day %s hour %d",
				r.RegionID, r.Week, r.Day, r.Hour)
		}
		seen[ek] = struct{}{}
		byScenario[sk] = append(byScenario[sk], r)
	}

	return &Store{records: records, byScenario: byScenario}, nil
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// Filter returns all records matching the selection, in document order. The
// boolean reports whether anything matched: an empty match is a valid
// terminal state for a query, not an error, and callers stop processing
// when it is false.
func (s *Store) Filter(sel model.QuerySelection) ([]model.ScoreRecord, bool) {
	bucket := s.byScenario[scenarioKey{
		urban: sel.UrbanThreshold,
		rural: sel.RuralThreshold,
		week:  sel.Week,
		day:   sel.Day,
	}]

	var out []model.ScoreRecord
	for _, r := range bucket {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out, len(out) > 0
}

// UrbanThresholds returns the distinct urban thresholds, ascending.
func (s *Store) UrbanThresholds() []float64 {
	return distinctFloats(s.records, func(r model.ScoreRecord) float64 { return r.UrbanThreshold })
}

// RuralThresholds returns the distinct rural thresholds, ascending.
func (s *Store) RuralThresholds() []float64 {
	return distinctFloats(s.records, func(r model.ScoreRecord) float64 { return r.RuralThreshold })
}

// Weeks returns the distinct week identifiers, ascending.
func (s *Store) Weeks() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range s.records {
		if _, ok := seen[r.Week]; !ok {
			seen[r.Week] = struct{}{}
			out = append(out, r.Week)
		}
	}
	sort.Ints(out)
	return out
}

// Days returns the distinct day labels, lexicographically ascending.
func (s *Store) Days() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.records {
		if _, ok := seen[r.Day]; !ok {
			seen[r.Day] = struct{}{}
			out = append(out, r.Day)
		}
	}
	sort.Strings(out)
	return out
}

func distinctFloats(records []model.ScoreRecord, get func(model.ScoreRecord) float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, r := range records {
		v := get(r)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
