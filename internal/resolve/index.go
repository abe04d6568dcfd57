package resolve

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/shfb-analytics/accessmap/internal/model"
)

// Index is a uniform grid over the region set that answers the same
// containment-then-nearest-centroid query as Resolve in sub-linear time.
// It precomputes centroids once, so it is also the right choice when many
// clicks are resolved against one query result.
type Index struct {
	entries  []entry            // sorted by region id
	byBBox   map[[2]int][]int   // cell -> entries whose bbox covers the cell
	centroid map[[2]int][]int   // cell -> entries whose centroid lies in the cell
	cellSize float64
	minX     float64
	minY     float64
	cellsX   int
	cellsY   int
}

type entry struct {
	id       string
	geometry *geom.MultiPolygon
	centroid geom.Coord
}

// NewIndex builds an Index over the joined regions. An empty region set is a
// precondition violation, as with Resolve.
func NewIndex(regions []model.JoinedRegion) (*Index, error) {
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	entries := make([]entry, 0, len(regions))
	for _, r := range regions {
		entries = append(entries, entry{id: r.RegionID, geometry: r.Geometry, centroid: Centroid(r.Geometry)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	// Grid extent covers all geometry bounds and centroids.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range entries {
		b := e.geometry.Bounds()
		minX = math.Min(minX, b.Min(0))
		minY = math.Min(minY, b.Min(1))
		maxX = math.Max(maxX, b.Max(0))
		maxY = math.Max(maxY, b.Max(1))
	}

	// Aim for roughly one region per cell; degenerate extents get one cell.
	span := math.Max(maxX-minX, maxY-minY)
	cells := int(math.Ceil(math.Sqrt(float64(len(entries)))))
	if cells < 1 {
		cells = 1
	}
	cellSize := span / float64(cells)
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = 1
	}

	ix := &Index{
		entries:  entries,
		byBBox:   make(map[[2]int][]int),
		centroid: make(map[[2]int][]int),
		cellSize: cellSize,
		minX:     minX,
		minY:     minY,
		cellsX:   int(math.Floor((maxX-minX)/cellSize)) + 1,
		cellsY:   int(math.Floor((maxY-minY)/cellSize)) + 1,
	}

	for i, e := range entries {
		b := e.geometry.Bounds()
		x0, y0 := ix.cellOf(b.Min(0), b.Min(1))
		x1, y1 := ix.cellOf(b.Max(0), b.Max(1))
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				key := [2]int{cx, cy}
				ix.byBBox[key] = append(ix.byBBox[key], i)
			}
		}
		ccx, ccy := ix.cellOf(e.centroid[0], e.centroid[1])
		ckey := [2]int{ccx, ccy}
		ix.centroid[ckey] = append(ix.centroid[ckey], i)
	}

	return ix, nil
}

// Len returns the number of indexed regions.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Resolve answers the same query as the package-level Resolve, using the
// grid to restrict candidate sets. The result is identical by construction:
// containment candidates come from the clicked cell's bbox list (a superset
// of polygons that can contain the point), and the centroid search expands
// rings until no unseen cell can beat the current best distance.
func (ix *Index) Resolve(lng, lat float64) (string, error) {
	p := geom.Coord{lng, lat}

	// Containment phase. Entries are sorted by id, so the first hit is the
	// smallest contained id.
	cx, cy := ix.cellOf(lng, lat)
	for _, i := range ix.byBBox[[2]int{cx, cy}] {
		if Contains(ix.entries[i].geometry, p) {
			return ix.entries[i].id, nil
		}
	}

	// Nearest-centroid fallback: expanding Chebyshev rings of cells.
	bestID := ""
	bestDist := 0.0
	rMax := ix.maxRing(cx, cy)
	for r := 0; r <= rMax; r++ {
		if bestID != "" && r >= 2 {
			// Cells at ring r are at least (r-1) cell sizes away.
			minD := float64(r-1) * ix.cellSize
			if minD*minD > bestDist {
				break
			}
		}
		ix.scanRing(cx, cy, r, func(i int) {
			d := sqDist(p, ix.entries[i].centroid)
			if bestID == "" || d < bestDist || (d == bestDist && ix.entries[i].id < bestID) {
				bestID = ix.entries[i].id
				bestDist = d
			}
		})
	}
	return bestID, nil
}

func (ix *Index) cellOf(x, y float64) (int, int) {
	return int(math.Floor((x - ix.minX) / ix.cellSize)),
		int(math.Floor((y - ix.minY) / ix.cellSize))
}

// maxRing is the Chebyshev radius at which rings around (cx, cy) stop
// intersecting the grid.
func (ix *Index) maxRing(cx, cy int) int {
	mx := max(abs(cx-0), abs(cx-(ix.cellsX-1)))
	my := max(abs(cy-0), abs(cy-(ix.cellsY-1)))
	return max(mx, my)
}

// scanRing visits every centroid entry in cells at exactly Chebyshev radius
// r from (cx, cy).
func (ix *Index) scanRing(cx, cy, r int, visit func(int)) {
	if r == 0 {
		for _, i := range ix.centroid[[2]int{cx, cy}] {
			visit(i)
		}
		return
	}
	for dx := -r; dx <= r; dx++ {
		for _, dy := range ringYs(dx, r) {
			for _, i := range ix.centroid[[2]int{cx + dx, cy + dy}] {
				visit(i)
			}
		}
	}
}

// ringYs returns the dy offsets forming the ring boundary for a given dx.
func ringYs(dx, r int) []int {
	if dx == -r || dx == r {
		ys := make([]int, 0, 2*r+1)
		for dy := -r; dy <= r; dy++ {
			ys = append(ys, dy)
		}
		return ys
	}
	return []int{-r, r}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
