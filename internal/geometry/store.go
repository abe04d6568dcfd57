// Package geometry holds the immutable region geometry store and its
// loaders: census tract shapefiles, the region-to-county mapping CSV, and a
// SQLite cache keeping geometries as EWKB blobs.
package geometry

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// SRID for lon/lat degrees (WGS 84). All geometry handed out by the store is
// in this reference.
const SRID = 4326

// Store is a read-only view of the region geometry table. Like the score
// store it is populated once before the first query and shared across
// concurrent queries without locking.
type Store struct {
	regions []model.Region
	byID    map[string]model.Region
}

// NewStore builds a Store from loaded regions. Region IDs must be unique and
// every geometry must be a non-empty multipolygon in lon/lat degrees.
func NewStore(regions []model.Region) (*Store, error) {
	byID := make(map[string]model.Region, len(regions))
	for _, r := range regions {
		if r.ID == "" {
			return nil, eris.New("geometry: region with empty id")
		}
		if _, dup := byID[r.ID]; dup {
			return nil, eris.Errorf("geometry: duplicate region id %s", r.ID)
		}
		if r.Geometry == nil || r.Geometry.NumPolygons() == 0 {
			return nil, eris.Errorf("geometry: region %s has empty geometry", r.ID)
		}
		if err := normalizeSRID(r.Geometry); err != nil {
			return nil, eris.Wrapf(err, "geometry: region %s", r.ID)
		}
		byID[r.ID] = r
	}
	return &Store{regions: regions, byID: byID}, nil
}

// normalizeSRID pins a geometry to lon/lat degrees. Geometries with no SRID
// are assumed to already be in degrees (the census cartographic boundary
// files ship in NAD83, which is indistinguishable from WGS 84 at map
// precision). Any other SRID is rejected rather than silently reprojected.
func normalizeSRID(mp *geom.MultiPolygon) error {
	switch mp.SRID() {
	case 0:
		mp.SetSRID(SRID)
		return nil
	case SRID:
		return nil
	default:
		return eris.Errorf("unsupported SRID %d (want %d)", mp.SRID(), SRID)
	}
}

// Regions returns all regions in load order. Callers must treat the slice as
// read-only.
func (s *Store) Regions() []model.Region {
	return s.regions
}

// Get returns the region with the given id.
func (s *Store) Get(id string) (model.Region, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of regions.
func (s *Store) Len() int {
	return len(s.regions)
}
