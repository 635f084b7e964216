package shader

import "github.com/cogentcore/webgpu/wgpu"

// Bind group indices shared by every embedded program.
const (
	// TransformGroup holds the per-draw (world, view_proj) uniform.
	TransformGroup = 0
	// MaterialGroup holds the texture and sampler pair, if the program samples one.
	MaterialGroup = 1
)

// TransformBindGroupLayout describes group 0: a single uniform buffer read by the vertex stage.
//
// Parameters:
//   - size: byte size of the uniform block
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func TransformBindGroupLayout(size uint64) wgpu.BindGroupLayoutDescriptor {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = size

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Transform Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	}
}

// TextureBindGroupLayout describes group 1: a float texture at binding 0 and a filtering
// sampler at binding 1, both read by the fragment stage.
//
// Parameters:
//   - dimension: wgpu.TextureViewDimension2D for flat textures, wgpu.TextureViewDimensionCube for cubemaps
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func TextureBindGroupLayout(dimension wgpu.TextureViewDimension) wgpu.BindGroupLayoutDescriptor {
	texture := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageFragment,
	}
	texture.Texture.SampleType = wgpu.TextureSampleTypeFloat
	texture.Texture.ViewDimension = dimension

	sampler := wgpu.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: wgpu.ShaderStageFragment,
	}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Texture Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{texture, sampler},
	}
}
