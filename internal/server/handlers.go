package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/colorscale"
	"github.com/shfb-analytics/accessmap/internal/model"
	"github.com/shfb-analytics/accessmap/internal/query"
)

type regionFeature struct {
	RegionID    string          `json:"region_id"`
	County      string          `json:"county"`
	AccessScore float64         `json:"access_score"`
	Color       string          `json:"color"`
	Geometry    json.RawMessage `json:"geometry"`
}

type scalePayload struct {
	VMin    float64  `json:"vmin"`
	VMax    float64  `json:"vmax"`
	Anchors []string `json:"anchors"`
}

type queryResponse struct {
	Title   string          `json:"title"`
	Empty   bool            `json:"empty"`
	Scale   *scalePayload   `json:"scale,omitempty"`
	Regions []regionFeature `json:"regions,omitempty"`
	Top     []query.Ranked  `json:"top,omitempty"`
	Bottom  []query.Ranked  `json:"bottom,omitempty"`
}

type resolveResponse struct {
	Selected    bool                `json:"selected"`
	Empty       bool                `json:"empty,omitempty"`
	RegionID    string              `json:"region_id,omitempty"`
	County      string              `json:"county,omitempty"`
	AccessScore float64             `json:"access_score"`
	Agencies    []model.AgencyShare `json:"agencies"`
	ParseFailed bool                `json:"parse_failed,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	store := s.engine.Scores()
	writeJSON(w, http.StatusOK, map[string]any{
		"urban_thresholds": store.UrbanThresholds(),
		"rural_thresholds": store.RuralThresholds(),
		"weeks":            store.Weeks(),
		"days":             store.Days(),
		"ramps":            colorscale.RampNames(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sel, opts, err := parseSelection(r, s.opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Run(sel, opts)
	if err != nil {
		zap.L().Error("server: query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	resp := queryResponse{Title: res.Title, Empty: res.Empty}
	if !res.Empty {
		anchors := make([]string, 0, len(res.Scale.Anchors()))
		for _, a := range res.Scale.Anchors() {
			anchors = append(anchors, a.Hex())
		}
		resp.Scale = &scalePayload{VMin: res.Scale.VMin, VMax: res.Scale.VMax, Anchors: anchors}
		resp.Top = res.Top
		resp.Bottom = res.Bottom

		resp.Regions = make([]regionFeature, 0, len(res.Regions))
		for _, region := range res.Regions {
			g, err := geojson.Marshal(region.Geometry)
			if err != nil {
				zap.L().Error("server: encode geometry",
					zap.String("region_id", region.RegionID),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "encode geometry")
				return
			}
			resp.Regions = append(resp.Regions, regionFeature{
				RegionID:    region.RegionID,
				County:      region.CountyLabel,
				AccessScore: region.AccessScore,
				Color:       res.Scale.HexFor(region.AccessScore),
				Geometry:    g,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sel, opts, err := parseSelection(r, s.opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lng, err := parseFloat(r, "lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lat, err := parseFloat(r, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Run(sel, opts)
	if err != nil {
		zap.L().Error("server: query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if res.Empty {
		// Nothing to resolve against: report the explicit no-selection
		// sentinel rather than an error.
		writeJSON(w, http.StatusOK, resolveResponse{Selected: false, Empty: true, Agencies: []model.AgencyShare{}})
		return
	}

	detail, err := s.engine.ResolvePoint(res, lng, lat)
	if err != nil {
		zap.L().Error("server: resolve failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resolve failed")
		return
	}

	agencies := detail.TopAgencies
	if agencies == nil {
		agencies = []model.AgencyShare{}
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Selected:    true,
		RegionID:    detail.RegionID,
		County:      detail.CountyLabel,
		AccessScore: detail.AccessScore,
		Agencies:    agencies,
		ParseFailed: detail.ParseFailed,
	})
}

// parseSelection reads the shared filter parameters. urban, rural, week, and
// day are required; hour defaults to 0 and is ignored when after_hours is
// set.
func parseSelection(r *http.Request, defaults query.Options) (model.QuerySelection, query.Options, error) {
	var sel model.QuerySelection
	var err error

	if sel.UrbanThreshold, err = parseFloat(r, "urban"); err != nil {
		return sel, defaults, err
	}
	if sel.RuralThreshold, err = parseFloat(r, "rural"); err != nil {
		return sel, defaults, err
	}
	if sel.Week, err = parseInt(r, "week"); err != nil {
		return sel, defaults, err
	}
	sel.Day = r.URL.Query().Get("day")
	if sel.Day == "" {
		return sel, defaults, errMissing("day")
	}

	if v := r.URL.Query().Get("after_hours"); v != "" {
		sel.AfterHours, err = strconv.ParseBool(v)
		if err != nil {
			return sel, defaults, errBad("after_hours", v)
		}
	}
	if !sel.AfterHours {
		if sel.Hour, err = parseInt(r, "hour"); err != nil {
			return sel, defaults, err
		}
		if sel.Hour < 0 || sel.Hour > 23 {
			return sel, defaults, errBad("hour", r.URL.Query().Get("hour"))
		}
	}

	opts := defaults
	if ramp := r.URL.Query().Get("ramp"); ramp != "" {
		opts.Ramp = ramp
	}
	return sel, opts, nil
}

type paramError struct{ msg string }

func (e paramError) Error() string { return e.msg }

func errMissing(name string) error {
	return paramError{msg: "missing parameter " + name}
}

func errBad(name, value string) error {
	return paramError{msg: "invalid parameter " + name + ": " + value}
}

func parseFloat(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errMissing(name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errBad(name, v)
	}
	return f, nil
}

func parseInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errMissing(name)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errBad(name, v)
	}
	return i, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
