// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// CubeFaceCount is the number of faces in a cubemap, in +X, -X, +Y, -Y, +Z, -Z layer order.
const CubeFaceCount = 6

// TextureStagingData holds RGBA pixel data for a 2D texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Valid reports whether the pixel buffer matches the declared dimensions.
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == int(t.Width*t.Height*4)
}

// CubemapStagingData holds six square RGBA faces for a cube texture pending GPU upload.
// Faces are ordered +X, -X, +Y, -Y, +Z, -Z to match the WebGPU cube layer order.
type CubemapStagingData struct {
	// Faces holds one pixel buffer per cube face, each Size*Size*4 bytes.
	Faces [CubeFaceCount][]byte
	// Size is the edge length of every face in pixels.
	Size uint32
}

// Valid reports whether every face is Size*Size RGBA pixels.
func (c CubemapStagingData) Valid() bool {
	if c.Size == 0 {
		return false
	}
	for _, face := range c.Faces {
		if len(face) != int(c.Size*c.Size*4) {
			return false
		}
	}
	return true
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero values fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// ClampSampler returns a linear sampler that clamps all three address modes to the edge.
func ClampSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	}
}
