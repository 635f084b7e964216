package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSourcesHaveBothStages(t *testing.T) {
	for _, name := range []string{SourceColorLines, SourceTextured, SourceSkybox} {
		src, err := LoadSource(name)
		require.NoError(t, err, name)
		assert.Equal(t, "vs_main", parseEntryPoint(src, ShaderTypeVertex), name)
		assert.Equal(t, "fs_main", parseEntryPoint(src, ShaderTypeFragment), name)
	}
}

func TestLoadSourceMissing(t *testing.T) {
	_, err := LoadSource("nope.wgsl")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoadSource("nope.wgsl") })
}

func TestParseEntryPointIgnoresComments(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
/* @vertex /* nested */ fn also_commented() {} */
@vertex
fn real_entry() -> @builtin(position) vec4<f32> { return vec4<f32>(); }
`
	assert.Equal(t, "real_entry", parseEntryPoint(src, ShaderTypeVertex))
	assert.Equal(t, "", parseEntryPoint(src, ShaderTypeFragment))
}

func TestNewShader(t *testing.T) {
	src := MustLoadSource(SourceTextured)
	layout := wgpu.VertexBufferLayout{ArrayStride: 20}
	s := NewShader("box.vs", ShaderTypeVertex, src,
		WithVertexLayout(layout),
		WithBindGroupLayout(TransformGroup, TransformBindGroupLayout(128)),
	)

	assert.Equal(t, "box.vs", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, []wgpu.VertexBufferLayout{layout}, s.VertexLayouts())
	assert.Equal(t, src, s.Module().WGSLDescriptor.Code)

	entries := s.BindGroupLayoutDescriptors()[TransformGroup].Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, uint64(128), entries[0].Buffer.MinBindingSize)
}

func TestNewShaderEntryPointOverride(t *testing.T) {
	s := NewShader("x", ShaderTypeFragment, "", WithEntryPoint("main"))
	assert.Equal(t, "main", s.EntryPoint())
}

func TestNewShaderWithoutEntryPointPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("bad", ShaderTypeVertex, "fn helper() {}")
	})
}

func TestTextureBindGroupLayout(t *testing.T) {
	desc := TextureBindGroupLayout(wgpu.TextureViewDimensionCube)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, desc.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, desc.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[1].Visibility)
}
