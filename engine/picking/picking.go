// Package picking turns screen coordinates into world-space rays and resolves them against the
// ground plane (y = 0) and the snapping grid.
//
// Every function in this package is pure: results depend only on the arguments, so calling a
// function twice with the same inputs yields the same result.
package picking

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

// ParallelEpsilon is the smallest |direction.y| accepted by IntersectGroundPlane.
const ParallelEpsilon = 1e-6

// Ray is a half-line in world space. Direction is unit length for rays built by ScreenToRay.
type Ray struct {
	Origin    common.Vec3
	Direction common.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) common.Vec3 {
	return r.Origin.Add(r.Direction.MulScalar(t))
}

// ScreenToNDC converts pixel coordinates to normalized device coordinates. Screen Y grows
// downward while NDC Y grows upward, so Y is flipped.
//
// Parameters:
//   - sx, sy: pixel coordinates, origin at the top-left corner
//   - width, height: viewport size in pixels
//
// Returns:
//   - x, y: NDC coordinates in [-1, 1] for points inside the viewport
func ScreenToNDC(sx, sy float32, width, height int) (x, y float32) {
	x = 2*sx/float32(width) - 1
	y = 1 - 2*sy/float32(height)
	return x, y
}

// ScreenToRay builds the world-space ray under a screen pixel.
// The NDC point is un-projected at depth 0 (near plane) and depth 1 (far plane) through
// inverse(projection * view). The ray starts at the near point and points toward the far point.
//
// Parameters:
//   - sx, sy: pixel coordinates, origin at the top-left corner
//   - view: view matrix (column-major)
//   - proj: projection matrix (column-major)
//   - width, height: viewport size in pixels
//
// Returns:
//   - Ray: the pick ray
//   - bool: false when the viewport is empty or the view-projection matrix is singular
func ScreenToRay(sx, sy float32, view, proj [16]float32, width, height int) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}

	var viewProj, inv [16]float32
	common.Mul4(viewProj[:], proj[:], view[:])
	if !common.Invert4(inv[:], viewProj[:]) {
		return Ray{}, false
	}

	x, y := ScreenToNDC(sx, sy, width, height)
	nearW, ok := common.TransformPoint(inv[:], common.Vec3{x, y, 0})
	if !ok {
		return Ray{}, false
	}
	farW, ok := common.TransformPoint(inv[:], common.Vec3{x, y, 1})
	if !ok {
		return Ray{}, false
	}

	dir := farW.Sub(nearW)
	if dir.Length() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: nearW, Direction: dir.Normalize()}, true
}

// IntersectGroundPlane solves origin.y + t*direction.y = 0.
// There is no hit when the ray is near-parallel to the ground or when the ground lies behind
// the ray origin (t < 0).
//
// Parameters:
//   - ray: the ray to test
//
// Returns:
//   - common.Vec3: the hit point, with Y forced to exactly 0
//   - bool: whether the ray hits the ground
func IntersectGroundPlane(ray Ray) (common.Vec3, bool) {
	dy := ray.Direction.Y()
	if math32.Abs(dy) < ParallelEpsilon {
		return common.Vec3{}, false
	}
	t := -ray.Origin.Y() / dy
	if t < 0 || !common.IsFinite(t) {
		return common.Vec3{}, false
	}
	hit := ray.At(t)
	hit[1] = 0
	return hit, true
}

// SnapToCell moves a ground point to the centre of the grid cell containing it. Each axis is
// clamped independently so points outside the grid land on the nearest edge cell.
//
// Parameters:
//   - p: a point on the ground plane
//   - cellSize: edge length of one cell
//   - halfCells: number of cells from the grid centre to its edge
//
// Returns:
//   - common.Vec3: the cell centre, with Y = 0
func SnapToCell(p common.Vec3, cellSize float32, halfCells int) common.Vec3 {
	half := float32(halfCells) * cellSize
	lo := -half + cellSize/2
	hi := half - cellSize/2

	snap := func(v float32) float32 {
		c := math32.Floor(v/cellSize)*cellSize + cellSize/2
		return common.Clamp(c, lo, hi)
	}
	return common.Vec3{snap(p.X()), 0, snap(p.Z())}
}

// Pick runs the full pick sequence for a screen pixel: ray, ground intersection, cell snap.
//
// Parameters:
//   - sx, sy: pixel coordinates, origin at the top-left corner
//   - view: view matrix (column-major)
//   - proj: projection matrix (column-major)
//   - width, height: viewport size in pixels
//   - grid: the snapping grid
//
// Returns:
//   - common.Vec3: centre of the picked cell
//   - bool: false when nothing was hit; callers must then leave their state unchanged
func Pick(sx, sy float32, view, proj [16]float32, width, height int, grid Grid) (common.Vec3, bool) {
	ray, ok := ScreenToRay(sx, sy, view, proj, width, height)
	if !ok {
		return common.Vec3{}, false
	}
	hit, ok := IntersectGroundPlane(ray)
	if !ok {
		return common.Vec3{}, false
	}
	return SnapToCell(hit, grid.CellSize, grid.HalfCells), true
}
