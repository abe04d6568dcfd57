package query

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/agency"
	"github.com/shfb-analytics/accessmap/internal/colorscale"
	"github.com/shfb-analytics/accessmap/internal/geometry"
	"github.com/shfb-analytics/accessmap/internal/model"
	"github.com/shfb-analytics/accessmap/internal/resolve"
	"github.com/shfb-analytics/accessmap/internal/scores"
)

// Options tunes presentation aspects of a query.
type Options struct {
	Ramp string // color ramp name; unknown names fall back to the default
	TopN int    // ranking size; default 10
}

// Result is the full output of one query: the joined region sequence, the
// color scale built over it, and the top/bottom rankings. Empty marks the
// distinct "no records matched" terminal state, in which case only Title is
// meaningful.
type Result struct {
	Selection model.QuerySelection
	Title     string
	Empty     bool
	Regions   []model.JoinedRegion
	Scale     colorscale.Scale
	Top       []Ranked
	Bottom    []Ranked

	idx *resolve.Index // built on first resolve
}

// Engine owns the immutable stores and runs queries against them. It is
// safe for concurrent use: all state is read-only after construction.
type Engine struct {
	scores    *scores.Store
	geo       *geometry.Store
	countyMap map[string]string
	allow     *geometry.AllowList
}

// NewEngine assembles an engine. countyMap and allow may be nil.
func NewEngine(s *scores.Store, g *geometry.Store, countyMap map[string]string, allow *geometry.AllowList) (*Engine, error) {
	if s == nil || g == nil {
		return nil, eris.New("query: engine needs score and geometry stores")
	}
	if g.Len() == 0 {
		return nil, eris.New("query: geometry store is empty")
	}
	return &Engine{scores: s, geo: g, countyMap: countyMap, allow: allow}, nil
}

// Scores exposes the score store for option enumeration.
func (e *Engine) Scores() *scores.Store {
	return e.scores
}

// Run executes one query: filter, join, scale, rank. An empty filter match
// returns a Result with Empty set and no join attempted.
func (e *Engine) Run(sel model.QuerySelection, opts Options) (*Result, error) {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}

	res := &Result{Selection: sel, Title: sel.Title()}

	records, ok := e.scores.Filter(sel)
	if !ok {
		zap.L().Info("query: no records for selection", zap.String("title", res.Title))
		res.Empty = true
		return res, nil
	}

	res.Regions = Join(records, e.geo, e.countyMap, e.allow)
	if len(res.Regions) == 0 {
		return nil, eris.New("query: allow-list excluded every region")
	}

	scoreValues := make([]float64, len(res.Regions))
	for i, r := range res.Regions {
		scoreValues[i] = r.AccessScore
	}
	res.Scale = colorscale.Build(scoreValues, colorscale.Ramp(opts.Ramp))
	res.Top = TopN(res.Regions, opts.TopN)
	res.Bottom = BottomN(res.Regions, opts.TopN)

	return res, nil
}

// ResolvePoint maps a clicked coordinate to the selection detail for the
// resolved region. The result must be non-empty; resolving an empty result
// is a caller error. The spatial index is built on the first call and
// reused for later clicks against the same result. Results are not safe for
// concurrent resolution.
func (e *Engine) ResolvePoint(res *Result, lng, lat float64) (model.Selection, error) {
	if res == nil || res.Empty || len(res.Regions) == 0 {
		return model.Selection{}, resolve.ErrNoRegions
	}
	if res.idx == nil {
		idx, err := resolve.NewIndex(res.Regions)
		if err != nil {
			return model.Selection{}, err
		}
		res.idx = idx
	}
	id, err := res.idx.Resolve(lng, lat)
	if err != nil {
		return model.Selection{}, err
	}
	return Describe(res.Regions, id)
}

// Describe builds the selection detail view for a region in a query result.
// Agency shares are parsed, ranked by contribution, and rounded for
// presentation; a malformed payload flags ParseFailed and leaves the list
// empty without failing.
func Describe(regions []model.JoinedRegion, regionID string) (model.Selection, error) {
	for _, r := range regions {
		if r.RegionID != regionID {
			continue
		}
		shares, failed := agency.Parse(r.TopAgencies)
		return model.Selection{
			RegionID:    r.RegionID,
			CountyLabel: r.CountyLabel,
			AccessScore: r.AccessScore,
			TopAgencies: agency.Presented(agency.SortByContribution(shares)),
			ParseFailed: failed,
		}, nil
	}
	return model.Selection{}, eris.Errorf("query: unknown region id %s", regionID)
}
