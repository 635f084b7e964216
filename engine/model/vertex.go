package model

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// ColorVertex is a position with an RGB color. Used by the grid (color_lines.wgsl).
// Size: 24 bytes.
type ColorVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Color    [3]float32 // offset 12: linear RGB color (12 bytes)
}

// ColorVertexSize is the stride of ColorVertex in a vertex buffer.
const ColorVertexSize = 24

// ColorVertexLayout returns the vertex buffer layout matching ColorVertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 24, position at location 0, color at location 1
func ColorVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: ColorVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

// Marshal writes the vertex into dst, which must hold at least ColorVertexSize bytes.
func (v ColorVertex) Marshal(dst []byte) {
	putFloats(dst[0:12], v.Position[:])
	putFloats(dst[12:24], v.Color[:])
}

// TexturedVertex is a position with a texture coordinate. Used by the box (textured.wgsl).
// Size: 20 bytes.
type TexturedVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	TexCoord [2]float32 // offset 12: UV, origin at the top-left of the image (8 bytes)
}

// TexturedVertexSize is the stride of TexturedVertex in a vertex buffer.
const TexturedVertexSize = 20

// TexturedVertexLayout returns the vertex buffer layout matching TexturedVertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 20, position at location 0, uv at location 1
func TexturedVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: TexturedVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// Marshal writes the vertex into dst, which must hold at least TexturedVertexSize bytes.
func (v TexturedVertex) Marshal(dst []byte) {
	putFloats(dst[0:12], v.Position[:])
	putFloats(dst[12:20], v.TexCoord[:])
}

// PositionVertex is a bare position. Used by the sky cube (skybox.wgsl), where the position
// doubles as the cubemap lookup direction.
// Size: 12 bytes.
type PositionVertex struct {
	Position [3]float32 // offset 0: model-space position (12 bytes)
}

// PositionVertexSize is the stride of PositionVertex in a vertex buffer.
const PositionVertexSize = 12

// PositionVertexLayout returns the vertex buffer layout matching PositionVertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 12, position at location 0
func PositionVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: PositionVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
}

// Marshal writes the vertex into dst, which must hold at least PositionVertexSize bytes.
func (v PositionVertex) Marshal(dst []byte) {
	putFloats(dst[0:12], v.Position[:])
}

// vertex is any vertex type that can serialize itself at a fixed stride.
type vertex interface {
	ColorVertex | TexturedVertex | PositionVertex
	Marshal(dst []byte)
}

// marshalVertices packs vertices back to back at the given stride.
func marshalVertices[V vertex](vertices []V, stride int) []byte {
	buf := make([]byte, len(vertices)*stride)
	for i, v := range vertices {
		v.Marshal(buf[i*stride:])
	}
	return buf
}

// marshalIndices packs indices as little-endian uint32, matching wgpu.IndexFormatUint32.
func marshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func putFloats(dst []byte, values []float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
