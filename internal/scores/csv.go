package scores

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// Column names as produced by the upstream scoring pipeline.
const (
	colGEOID          = "GEOID"
	colUrbanThreshold = "urban_threshold"
	colRuralThreshold = "rural_threshold"
	colWeek           = "week"
	colDay            = "day"
	colHour           = "hour"
	colAccessScore    = "Access_Score"
	colTopAgencies    = "Top_Agencies"
)

// LoadCSV reads the precomputed score table from CSV. The header row maps
// columns by name so column order does not matter. The Top_Agencies column
// is optional and carried verbatim; parsing it is deferred to the agency
// breakdown.
func LoadCSV(r io.Reader) ([]model.ScoreRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "scores: read CSV header")
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colGEOID, colUrbanThreshold, colRuralThreshold, colWeek, colDay, colHour, colAccessScore} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("scores: CSV missing column %q", required)
		}
	}
	agencyIdx, hasAgencies := idx[colTopAgencies]

	var records []model.ScoreRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "scores: read CSV row %d", line+1)
		}
		line++

		rec, err := parseRow(row, idx, agencyIdx, hasAgencies)
		if err != nil {
			return nil, eris.Wrapf(err, "scores: CSV row %d", line)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, idx map[string]int, agencyIdx int, hasAgencies bool) (model.ScoreRecord, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	urban, err := strconv.ParseFloat(field(colUrbanThreshold), 64)
	if err != nil {
		return model.ScoreRecord{}, eris.Wrap(err, "parse urban_threshold")
	}
	rural, err := strconv.ParseFloat(field(colRuralThreshold), 64)
	if err != nil {
		return model.ScoreRecord{}, eris.Wrap(err, "parse rural_threshold")
	}
	week, err := strconv.Atoi(field(colWeek))
	if err != nil {
		return model.ScoreRecord{}, eris.Wrap(err, "parse week")
	}
	hour, err := strconv.Atoi(field(colHour))
	if err != nil {
		return model.ScoreRecord{}, eris.Wrap(err, "parse hour")
	}
	if hour < 0 || hour > 23 {
		return model.ScoreRecord{}, eris.Errorf("hour %d out of range", hour)
	}
	score, err := strconv.ParseFloat(field(colAccessScore), 64)
	if err != nil {
		return model.ScoreRecord{}, eris.Wrap(err, "parse Access_Score")
	}

	rec := model.ScoreRecord{
		RegionID:       field(colGEOID),
		UrbanThreshold: urban,
		RuralThreshold: rural,
		Week:           week,
		Day:            field(colDay),
		Hour:           hour,
		AccessScore:    score,
	}
	if rec.RegionID == "" {
		return model.ScoreRecord{}, eris.New("empty GEOID")
	}

	raw := "[]"
	if hasAgencies && agencyIdx < len(row) {
		if v := strings.TrimSpace(row[agencyIdx]); v != "" {
			raw = v
		}
	}
	rec.TopAgencies = model.RawAgencies(raw)

	return rec, nil
}
