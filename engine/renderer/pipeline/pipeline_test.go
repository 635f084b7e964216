package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	assert.True(t, s.IsDefault())
	assert.Equal(t, wgpu.CompareFunctionLess, s.DepthCompare)
	assert.True(t, s.DepthWrite)
	assert.Equal(t, wgpu.CullModeBack, s.CullMode)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, s.Topology)
}

func TestSkyboxState(t *testing.T) {
	s := SkyboxState()
	assert.False(t, s.IsDefault())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, s.DepthCompare)
	assert.False(t, s.DepthWrite)
	assert.Equal(t, wgpu.CullModeFront, s.CullMode)

	// Deriving the skybox state must not leak into the default.
	assert.True(t, DefaultState().IsDefault())
}

func TestLineStateKeepsDepthDefaults(t *testing.T) {
	s := LineState()
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, s.Topology)
	assert.Equal(t, wgpu.CullModeNone, s.CullMode)
	assert.False(t, s.IsDefault())

	s.Topology = wgpu.PrimitiveTopologyTriangleList
	s.CullMode = wgpu.CullModeBack
	assert.True(t, s.IsDefault())
}

func TestNewPipelineOptions(t *testing.T) {
	p := NewPipeline("sky", WithState(SkyboxState()))
	assert.Equal(t, "sky", p.PipelineKey())
	assert.Equal(t, SkyboxState(), p.State())
	assert.Nil(t, p.RenderPipeline())

	p = NewPipeline("lines", WithTopology(wgpu.PrimitiveTopologyLineList), WithCullMode(wgpu.CullModeNone))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.State().Topology)
	assert.Equal(t, wgpu.CullModeNone, p.State().CullMode)
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
}
