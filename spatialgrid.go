package sweep

import (
	"math"
	"sort"

	"github.com/akmonengine/sweep/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey - coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - object indices stored in a cell
type Cell struct {
	bodyIndices []int
}

// Pair - two objects (by index) that might collide, A < B
type Pair struct {
	A int
	B int
}

// SpatialGrid - uniform hashed grid used as broad phase over swept AABBs
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	// objects spanning more cells than the grid has are checked against everything
	large []int
}

// NewSpatialGrid - creates a grid of numCells (rounded to a power of two) cells of cellSize meters
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - rounds up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - adds an object index in every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if sg.spanTooLarge(minCell, maxCell) {
		sg.large = append(sg.large, bodyIndex)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				sg.cells[cellIdx].bodyIndices = append(
					sg.cells[cellIdx].bodyIndices,
					bodyIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.large = sg.large[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs - returns every pair of inserted objects whose AABBs overlap.
// aabbs is indexed by object index, indices lists the inserted objects
func (sg *SpatialGrid) FindPairs(indices []int, aabbs []actor.AABB) []Pair {
	pairs := make([]Pair, 0, len(indices)/2)
	seen := make([]bool, len(aabbs))

	addPair := func(a, b int) {
		if a == b || seen[b] {
			return
		}
		seen[b] = true

		if aabbs[a].Overlaps(aabbs[b]) {
			pairs = append(pairs, Pair{A: min(a, b), B: max(a, b)})
		}
	}

	isLarge := make([]bool, len(aabbs))
	for _, idx := range sg.large {
		isLarge[idx] = true
	}

	for _, bodyIdx := range indices {
		clear(seen)

		if isLarge[bodyIdx] {
			// checked against every object with a greater index, or any non-large one
			for _, otherIdx := range indices {
				if otherIdx > bodyIdx || !isLarge[otherIdx] {
					addPair(bodyIdx, otherIdx)
				}
			}
			continue
		}

		minCell := sg.worldToCell(aabbs[bodyIdx].Min)
		maxCell := sg.worldToCell(aabbs[bodyIdx].Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					cellIdx := sg.hashCell(CellKey{x, y, z})

					for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
						// deterministic order, avoids (A,B) and (B,A)
						if otherIdx <= bodyIdx {
							continue
						}
						addPair(bodyIdx, otherIdx)
					}
				}
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	return pairs
}

// spanTooLarge - true when the cell range covers more cells than the grid holds
func (sg *SpatialGrid) spanTooLarge(minCell, maxCell CellKey) bool {
	limit := len(sg.cells)
	span := 1
	for _, extent := range [3]int{
		maxCell.X - minCell.X + 1,
		maxCell.Y - minCell.Y + 1,
		maxCell.Z - minCell.Z + 1,
	} {
		if extent > limit {
			return true
		}
		span *= extent
		if span > limit {
			return true
		}
	}

	return false
}

// worldToCell - converts a position in meters to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - hashes a cell to an index in the array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
