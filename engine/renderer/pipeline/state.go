package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// State is the fixed-function state a draw pass binds: primitive assembly, depth-stencil and
// rasterizer settings. In WebGPU these are baked into the render pipeline object, so two passes
// with different State values always use different pipelines.
type State struct {
	Topology     wgpu.PrimitiveTopology
	DepthCompare wgpu.CompareFunction
	DepthWrite   bool
	CullMode     wgpu.CullMode
	FrontFace    wgpu.FrontFace
}

// DefaultState returns the state every pass starts from and every pass is restored to: triangle
// lists, depth test LESS with writes, back-face culling, counter-clockwise front faces.
func DefaultState() State {
	return State{
		Topology:     wgpu.PrimitiveTopologyTriangleList,
		DepthCompare: wgpu.CompareFunctionLess,
		DepthWrite:   true,
		CullMode:     wgpu.CullModeBack,
		FrontFace:    wgpu.FrontFaceCCW,
	}
}

// IsDefault reports whether s equals DefaultState.
func (s State) IsDefault() bool {
	return s == DefaultState()
}

// WithTopology returns a copy of s using the given primitive topology.
func (s State) WithTopology(t wgpu.PrimitiveTopology) State {
	s.Topology = t
	return s
}

// WithDepth returns a copy of s using the given depth comparison and write flag.
func (s State) WithDepth(compare wgpu.CompareFunction, write bool) State {
	s.DepthCompare = compare
	s.DepthWrite = write
	return s
}

// WithCullMode returns a copy of s using the given cull mode.
func (s State) WithCullMode(mode wgpu.CullMode) State {
	s.CullMode = mode
	return s
}

// LineState is DefaultState drawn as a line list with culling off.
func LineState() State {
	return DefaultState().
		WithTopology(wgpu.PrimitiveTopologyLineList).
		WithCullMode(wgpu.CullModeNone)
}

// SkyboxState draws a cube seen from the inside: depth LESS_EQUAL so the sky at the far plane
// still passes, no depth writes, and front-face culling so the interior faces remain.
func SkyboxState() State {
	return DefaultState().
		WithDepth(wgpu.CompareFunctionLessEqual, false).
		WithCullMode(wgpu.CullModeFront)
}
