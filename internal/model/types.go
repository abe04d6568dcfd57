// Package model defines the core data types shared across the access map engine.
package model

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// AfterHoursStart is the first hour considered "after hours" (5 PM).
const AfterHoursStart = 17

// AgencyShare is one contributor to a region's access score. The JSON tags
// match the column layout produced by the upstream scoring pipeline.
type AgencyShare struct {
	Name         string  `json:"Agency"`
	Contribution float64 `json:"Agency_Contribution"`
}

// AgencyPayload carries the top-agency field of a score record in its tagged,
// not-yet-parsed form. Exactly one variant is meaningful: Structured reports
// whether Shares was populated directly by the loader or whether Raw still
// holds serialized JSON text.
type AgencyPayload struct {
	Shares     []AgencyShare
	Raw        string
	Structured bool
}

// StructuredAgencies wraps an already-decoded share list.
func StructuredAgencies(shares []AgencyShare) AgencyPayload {
	return AgencyPayload{Shares: shares, Structured: true}
}

// RawAgencies wraps a serialized top-agency payload for deferred parsing.
func RawAgencies(raw string) AgencyPayload {
	return AgencyPayload{Raw: raw}
}

// ScoreRecord is one row of the precomputed score table: the access score of
// a single region under a single scenario.
type ScoreRecord struct {
	RegionID       string
	UrbanThreshold float64
	RuralThreshold float64
	Week           int
	Day            string
	Hour           int
	AccessScore    float64
	TopAgencies    AgencyPayload
}

// Region is one geographic reporting unit with its polygon boundary.
// Geometry is always a MultiPolygon in lon/lat degrees (SRID 4326).
type Region struct {
	ID          string
	Geometry    *geom.MultiPolygon
	CountyLabel string
}

// QuerySelection holds the ephemeral filter parameters for a single query.
// Hour is ignored when AfterHours is set; the two modes are mutually
// exclusive.
type QuerySelection struct {
	UrbanThreshold float64
	RuralThreshold float64
	Week           int
	Day            string
	Hour           int
	AfterHours     bool
}

// Title returns the human-readable scenario label for the selection.
func (s QuerySelection) Title() string {
	if s.AfterHours {
		return fmt.Sprintf("After Hours (>=5PM), Week %d, %s", s.Week, s.Day)
	}
	return fmt.Sprintf("Week %d, %s, %02d:00", s.Week, s.Day, s.Hour)
}

// Matches reports whether a record satisfies every predicate of the
// selection.
func (s QuerySelection) Matches(r ScoreRecord) bool {
	if r.UrbanThreshold != s.UrbanThreshold ||
		r.RuralThreshold != s.RuralThreshold ||
		r.Week != s.Week ||
		r.Day != s.Day {
		return false
	}
	if s.AfterHours {
		return r.Hour >= AfterHoursStart
	}
	return r.Hour == s.Hour
}

// JoinedRegion is the output of the spatial join: a region with its geometry,
// county label, and the score data for the current scenario attached.
type JoinedRegion struct {
	RegionID    string
	Geometry    *geom.MultiPolygon
	CountyLabel string
	AccessScore float64
	TopAgencies AgencyPayload
}

// Selection is the detail view for a resolved map click. ParseFailed is set
// when the region's top-agency payload could not be decoded; the share list
// is empty in that case.
type Selection struct {
	RegionID    string
	CountyLabel string
	AccessScore float64
	TopAgencies []AgencyShare
	ParseFailed bool
}
