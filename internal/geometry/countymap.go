package geometry

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CountyMapOptions selects the columns of the region-to-county CSV. Zero
// values fall back to the upstream RUCA crosswalk layout.
type CountyMapOptions struct {
	IDColumn     string // default "GEOID_x"
	CountyColumn string // default "County_x"
}

// LoadCountyMap reads the auxiliary region-to-county lookup. It is consumed
// as the preferred county source when joining; the geometry-side label is
// the fallback.
func LoadCountyMap(r io.Reader, opts CountyMapOptions) (map[string]string, error) {
	if opts.IDColumn == "" {
		opts.IDColumn = "GEOID_x"
	}
	if opts.CountyColumn == "" {
		opts.CountyColumn = "County_x"
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "geometry: read county map header")
	}
	idIdx, countyIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.IDColumn:
			idIdx = i
		case opts.CountyColumn:
			countyIdx = i
		}
	}
	if idIdx < 0 || countyIdx < 0 {
		return nil, eris.Errorf("geometry: county map missing columns %q/%q", opts.IDColumn, opts.CountyColumn)
	}

	out := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "geometry: read county map row")
		}
		if idIdx >= len(row) || countyIdx >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idIdx])
		county := strings.TrimSpace(row[countyIdx])
		if id == "" || county == "" {
			continue
		}
		out[id] = county
	}

	return out, nil
}
