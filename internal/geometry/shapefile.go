package geometry

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// ShapefileOptions selects the attribute fields to read. Zero values fall
// back to the census cartographic boundary file layout.
type ShapefileOptions struct {
	IDField     string // default "GEOID"
	CountyField string // default "NAMELSADCO"
}

// LoadShapefile reads region polygons and county labels from a shapefile.
// Records with missing or malformed geometry are skipped with a debug log
// rather than failing the whole load.
func LoadShapefile(path string, opts ShapefileOptions) ([]model.Region, error) {
	if opts.IDField == "" {
		opts.IDField = "GEOID"
	}
	if opts.CountyField == "" {
		opts.CountyField = "NAMELSADCO"
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geometry: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map. DBF field names are NUL-padded.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	idIdx, ok := fieldIdx[strings.ToLower(opts.IDField)]
	if !ok {
		return nil, eris.Errorf("geometry: shapefile missing field %q", opts.IDField)
	}
	countyIdx, hasCounty := fieldIdx[strings.ToLower(opts.CountyField)]

	var regions []model.Region
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		id := attribute(reader, idIdx)
		if id == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		var county string
		if hasCounty {
			county = attribute(reader, countyIdx)
		}

		regions = append(regions, model.Region{ID: id, Geometry: mp, CountyLabel: county})
	}

	if skipped > 0 {
		zap.L().Debug("geometry: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return regions, nil
}

func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Each part becomes its own single-ring polygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(SRID)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("geometry: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geometry: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
