package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

// DefaultFallbackSize is the edge length of procedural textures.
const DefaultFallbackSize = 256

// DefaultCheckerCells is the number of checker cells per side of the fallback box texture.
const DefaultCheckerCells = 8

var defaultCheckerColors = [2][3]uint8{{214, 196, 160}, {92, 74, 58}}

var (
	skyZenith  = [3]float32{0.18, 0.36, 0.70}
	skyHorizon = [3]float32{0.75, 0.85, 0.95}
	skyGround  = [3]float32{0.25, 0.22, 0.20}
)

// Checkerboard builds a square two-colour checkerboard.
//
// Parameters:
//   - size: edge length in pixels
//   - cells: checker cells per side
//   - colors: the two cell colours
//
// Returns:
//   - common.TextureStagingData: opaque RGBA8 pixels
func Checkerboard(size uint32, cells int, colors [2][3]uint8) common.TextureStagingData {
	if size == 0 {
		size = DefaultFallbackSize
	}
	if cells <= 0 {
		cells = 1
	}
	cell := max(int(size)/cells, 1)
	pix := make([]byte, size*size*4)
	for y := range int(size) {
		for x := range int(size) {
			c := colors[(x/cell+y/cell)%2]
			i := (y*int(size) + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c[0], c[1], c[2], 255
		}
	}
	return common.TextureStagingData{Pixels: pix, Width: size, Height: size}
}

// SkyGradient builds a cubemap shaded by the height of each texel's direction: ground colour
// below the horizon, blending from horizon to zenith above it. Shared cube edges match.
//
// Parameters:
//   - size: face edge length in pixels
//
// Returns:
//   - common.CubemapStagingData: six opaque RGBA8 faces
func SkyGradient(size uint32) common.CubemapStagingData {
	if size == 0 {
		size = DefaultFallbackSize
	}
	cube := common.CubemapStagingData{Size: size}
	for face := range common.CubeFaceCount {
		pix := make([]byte, size*size*4)
		for y := range int(size) {
			for x := range int(size) {
				u := 2*(float32(x)+0.5)/float32(size) - 1
				v := 2*(float32(y)+0.5)/float32(size) - 1
				c := skyColor(cubeDirection(face, u, v))
				i := (y*int(size) + x) * 4
				pix[i] = uint8(c[0]*255 + 0.5)
				pix[i+1] = uint8(c[1]*255 + 0.5)
				pix[i+2] = uint8(c[2]*255 + 0.5)
				pix[i+3] = 255
			}
		}
		cube.Faces[face] = pix
	}
	return cube
}

// cubeDirection maps face texel coordinates in [-1, 1] to a unit direction, using the WebGPU
// cube layer order +X, -X, +Y, -Y, +Z, -Z.
func cubeDirection(face int, u, v float32) common.Vec3 {
	var d common.Vec3
	switch face {
	case 0:
		d = common.Vec3{1, -v, -u}
	case 1:
		d = common.Vec3{-1, -v, u}
	case 2:
		d = common.Vec3{u, 1, v}
	case 3:
		d = common.Vec3{u, -1, -v}
	case 4:
		d = common.Vec3{u, -v, 1}
	default:
		d = common.Vec3{-u, -v, -1}
	}
	return d.Normalize()
}

func skyColor(dir common.Vec3) [3]float32 {
	h := dir.Y()
	if h < 0 {
		t := math32.Min(-h*4, 1)
		return lerp3(skyHorizon, skyGround, t)
	}
	return lerp3(skyHorizon, skyZenith, math32.Sqrt(h))
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
