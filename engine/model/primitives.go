package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/picking"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh names used as GPU debug labels.
const (
	GridMeshName    = "grid"
	BoxMeshName     = "box"
	SkyCubeMeshName = "sky_cube"
)

// DefaultSkyHalfSize is the half edge length of the sky cube. It only needs to sit inside the
// far plane; the sky is drawn with the view translation removed.
const DefaultSkyHalfSize = 50

// MajorLineEvery marks every n-th grid line as a major line.
const MajorLineEvery = 5

var (
	// AxisXColor colours the line running along X through z = 0.
	AxisXColor = [3]float32{0.8, 0.2, 0.2}
	// AxisZColor colours the line running along Z through x = 0.
	AxisZColor = [3]float32{0.2, 0.4, 0.8}
	// MajorLineColor colours every MajorLineEvery-th line.
	MajorLineColor = [3]float32{1, 1, 0}
	// MinorLineColor colours the remaining lines.
	MinorLineColor = [3]float32{0.15, 0.15, 0.15}
)

// NewGridMesh builds the ground grid as a non-indexed line list: for every i in
// [-HalfCells, HalfCells] one line along X at z = i*cell and one along Z at x = i*cell, each
// spanning the full grid. The result has (2N+1)*4 vertices.
//
// Parameters:
//   - grid: cell size and half cell count
//
// Returns:
//   - Mesh: the grid mesh
func NewGridMesh(grid picking.Grid) Mesh {
	n := grid.HalfCells
	half := grid.HalfExtent()
	vertices := make([]ColorVertex, 0, (2*n+1)*4)

	for i := -n; i <= n; i++ {
		offset := float32(i) * grid.CellSize
		alongX, alongZ := lineColors(i)
		vertices = append(vertices,
			ColorVertex{Position: [3]float32{-half, 0, offset}, Color: alongX},
			ColorVertex{Position: [3]float32{half, 0, offset}, Color: alongX},
			ColorVertex{Position: [3]float32{offset, 0, -half}, Color: alongZ},
			ColorVertex{Position: [3]float32{offset, 0, half}, Color: alongZ},
		)
	}

	return NewMesh(GridMeshName,
		WithColorVertices(vertices),
		WithTopology(wgpu.PrimitiveTopologyLineList),
	)
}

// lineColors returns the colours of the X-running and Z-running lines at index i.
func lineColors(i int) (alongX, alongZ [3]float32) {
	switch {
	case i == 0:
		return AxisXColor, AxisZColor
	case i%MajorLineEvery == 0:
		return MajorLineColor, MajorLineColor
	default:
		return MinorLineColor, MinorLineColor
	}
}

// boxCorners are the unit box corners: x/z in ±0.5, y in [0, 1].
var boxCorners = [8][3]float32{
	{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 1, -0.5}, {-0.5, 1, -0.5},
	{-0.5, 0, 0.5}, {0.5, 0, 0.5}, {0.5, 1, 0.5}, {-0.5, 1, 0.5},
}

// boxFaces lists four corners per face. The corners are listed clockwise seen from outside,
// matching the UV order below.
var boxFaces = [6][4]int{
	{0, 1, 2, 3}, // -z
	{1, 5, 6, 2}, // +x
	{5, 4, 7, 6}, // +z
	{4, 0, 3, 7}, // -x
	{3, 2, 6, 7}, // +y
	{4, 5, 1, 0}, // -y
}

var (
	sideUVs   = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	bottomUVs = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
)

// NewBoxMesh builds the unit box as 24 textured vertices (four per face so every face gets the
// full texture) and 36 indices, counter-clockwise seen from outside.
//
// Returns:
//   - Mesh: the box mesh
func NewBoxMesh() Mesh {
	vertices := make([]TexturedVertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for f, face := range boxFaces {
		uvs := sideUVs
		if f == len(boxFaces)-1 {
			uvs = bottomUVs
		}
		base := uint32(len(vertices))
		for c, corner := range face {
			vertices = append(vertices, TexturedVertex{Position: boxCorners[corner], TexCoord: uvs[c]})
		}
		indices = append(indices,
			base, base+2, base+1,
			base, base+3, base+2,
		)
	}

	return NewMesh(BoxMeshName,
		WithTexturedVertices(vertices),
		WithIndices(indices),
	)
}

// skyIndices wind every face counter-clockwise seen from outside the cube. The camera sits
// inside, so the sky pipeline culls front faces.
var skyIndices = []uint32{
	0, 3, 2, 0, 2, 1, // -z
	1, 2, 6, 1, 6, 5, // +x
	5, 6, 7, 5, 7, 4, // +z
	4, 7, 3, 4, 3, 0, // -x
	3, 7, 6, 3, 6, 2, // +y
	4, 0, 1, 4, 1, 5, // -y
}

// NewSkyCubeMesh builds the sky cube centred on the origin with 8 position-only vertices and
// 36 indices.
//
// Parameters:
//   - halfSize: half edge length, DefaultSkyHalfSize when <= 0
//
// Returns:
//   - Mesh: the sky cube mesh
func NewSkyCubeMesh(halfSize float32) Mesh {
	s := halfSize
	if s <= 0 {
		s = DefaultSkyHalfSize
	}
	vertices := []PositionVertex{
		{Position: [3]float32{-s, -s, -s}},
		{Position: [3]float32{s, -s, -s}},
		{Position: [3]float32{s, s, -s}},
		{Position: [3]float32{-s, s, -s}},
		{Position: [3]float32{-s, -s, s}},
		{Position: [3]float32{s, -s, s}},
		{Position: [3]float32{s, s, s}},
		{Position: [3]float32{-s, s, s}},
	}

	return NewMesh(SkyCubeMeshName,
		WithPositionVertices(vertices),
		WithIndices(skyIndices),
	)
}
