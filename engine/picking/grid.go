package picking

import "github.com/Carmen-Shannon/oxy-viewer/common"

// HiddenBoxY is the Y translation used to keep the box out of view before the first pick.
const HiddenBoxY = -1000

// Grid describes the square ground grid centred on the origin.
// It is immutable after construction and defines the snapping domain for picks.
type Grid struct {
	CellSize  float32
	HalfCells int
}

// DefaultGrid is a 40x40 grid of unit cells.
var DefaultGrid = Grid{CellSize: 1, HalfCells: 20}

// HalfExtent returns the world distance from the grid centre to its edge.
func (g Grid) HalfExtent() float32 {
	return float32(g.HalfCells) * g.CellSize
}

// Valid reports whether the grid has a positive cell size and at least one cell per side.
func (g Grid) Valid() bool {
	return g.CellSize > 0 && g.HalfCells > 0 && common.IsFinite(g.CellSize)
}

// BoxTransform returns the world matrix that places a unit box (x/z in ±0.5, y in [0, 1])
// on a cell: Translate(center) * Scale(cellSize, 1, cellSize).
//
// Parameters:
//   - center: cell centre on the ground plane
//
// Returns:
//   - [16]float32: column-major world matrix
func (g Grid) BoxTransform(center common.Vec3) [16]float32 {
	var t, s, out [16]float32
	common.Translate(t[:], center.X(), center.Y(), center.Z())
	common.Scale(s[:], g.CellSize, 1, g.CellSize)
	common.Mul4(out[:], t[:], s[:])
	return out
}

// HiddenBoxTransform returns the world matrix that parks the box far below the ground.
func HiddenBoxTransform() [16]float32 {
	var out [16]float32
	common.Translate(out[:], 0, HiddenBoxY, 0)
	return out
}
