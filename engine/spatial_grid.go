package engine

import (
	"math"

	"github.com/lixenwraith/forcefield/vmath"
)

// cellKey addresses one cubic cell of the grid
type cellKey struct {
	X, Y, Z int32
}

// maxCellsPerAxis caps how many cells one insert or query may span per axis
// Larger extents are clipped to a window around their center
const maxCellsPerAxis = 64

// SpatialGrid is a sparse 3D hash grid for broadphase queries
// Cells keep their backing arrays across Clear so steady state rebuilds do not allocate
type SpatialGrid struct {
	CellSize float64
	cells    map[cellKey][]EntityID

	// Query dedup: an entity spanning several cells is visited once per query
	stamp map[EntityID]uint32
	epoch uint32
}

// NewSpatialGrid creates an empty grid with the given cell edge length
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		CellSize: cellSize,
		cells:    make(map[cellKey][]EntityID),
		stamp:    make(map[EntityID]uint32),
	}
}

func (g *SpatialGrid) cellCoord(v float64) int32 {
	c := math.Floor(v / g.CellSize)
	if c > math.MaxInt32 {
		return math.MaxInt32
	}
	if c < math.MinInt32 {
		return math.MinInt32
	}
	return int32(c)
}

// span returns the inclusive cell range covered by b on each axis
func (g *SpatialGrid) span(b vmath.Bounds) (lo, hi cellKey) {
	lo = cellKey{g.cellCoord(b.Min.X), g.cellCoord(b.Min.Y), g.cellCoord(b.Min.Z)}
	hi = cellKey{g.cellCoord(b.Max.X), g.cellCoord(b.Max.Y), g.cellCoord(b.Max.Z)}
	lo.X, hi.X = clipSpan(lo.X, hi.X)
	lo.Y, hi.Y = clipSpan(lo.Y, hi.Y)
	lo.Z, hi.Z = clipSpan(lo.Z, hi.Z)
	return lo, hi
}

func clipSpan(lo, hi int32) (int32, int32) {
	if int64(hi)-int64(lo) < maxCellsPerAxis {
		return lo, hi
	}
	mid := int32((int64(lo) + int64(hi)) / 2)
	return mid - maxCellsPerAxis/2, mid + maxCellsPerAxis/2 - 1
}

// Add inserts an entity into every cell its bounds overlap
func (g *SpatialGrid) Add(e EntityID, b vmath.Bounds) {
	lo, hi := g.span(b)
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				k := cellKey{x, y, z}
				g.cells[k] = append(g.cells[k], e)
			}
		}
	}
}

// Remove deletes an entity from the cells its bounds overlap
// Uses swap-remove to maintain dense packing
func (g *SpatialGrid) Remove(e EntityID, b vmath.Bounds) {
	lo, hi := g.span(b)
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				k := cellKey{x, y, z}
				cell := g.cells[k]
				for i, id := range cell {
					if id == e {
						last := len(cell) - 1
						cell[i] = cell[last]
						g.cells[k] = cell[:last]
						break
					}
				}
			}
		}
	}
	delete(g.stamp, e)
}

// Query calls visit once for each entity in cells overlapping b
// Visit order is deterministic for identical insert order
func (g *SpatialGrid) Query(b vmath.Bounds, visit func(EntityID)) {
	g.epoch++
	if g.epoch == 0 {
		// Wrapped: old stamps could alias the new epoch
		clear(g.stamp)
		g.epoch = 1
	}

	lo, hi := g.span(b)
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				for _, id := range g.cells[cellKey{x, y, z}] {
					if g.stamp[id] == g.epoch {
						continue
					}
					g.stamp[id] = g.epoch
					visit(id)
				}
			}
		}
	}
}

// Clear empties every cell, keeping capacity of cells that were in use
// Cells already empty since the previous Clear are dropped
func (g *SpatialGrid) Clear() {
	for k, cell := range g.cells {
		if len(cell) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = cell[:0]
	}
	clear(g.stamp)
	g.epoch = 0
}

// CellCount returns the number of allocated cells
func (g *SpatialGrid) CellCount() int {
	return len(g.cells)
}
