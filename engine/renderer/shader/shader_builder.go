package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the entry point parsed from the source.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithVertexLayout appends a vertex buffer layout. Slots are assigned in call order.
//
// Parameters:
//   - layout: the vertex buffer layout for the next slot
//
// Returns:
//   - ShaderBuilderOption: a function that appends the layout
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}

// WithBindGroupLayout declares the layout of one bind group read by this stage.
//
// Parameters:
//   - group: the @group index
//   - descriptor: the layout of the group
//
// Returns:
//   - ShaderBuilderOption: a function that stores the layout under the group index
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}
