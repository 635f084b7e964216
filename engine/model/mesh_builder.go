package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// MeshBuilderOption is a functional option used to configure a Mesh during construction.
type MeshBuilderOption func(*mesh)

// WithColorVertices sets the geometry to the given color vertices.
//
// Parameters:
//   - vertices: the vertices, drawn in order
//
// Returns:
//   - MeshBuilderOption: a function that packs the vertices and sets the layout
func WithColorVertices(vertices []ColorVertex) MeshBuilderOption {
	return func(m *mesh) {
		m.vertexData = marshalVertices(vertices, ColorVertexSize)
		m.vertexCount = len(vertices)
		m.layout = ColorVertexLayout()
	}
}

// WithTexturedVertices sets the geometry to the given textured vertices.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - MeshBuilderOption: a function that packs the vertices and sets the layout
func WithTexturedVertices(vertices []TexturedVertex) MeshBuilderOption {
	return func(m *mesh) {
		m.vertexData = marshalVertices(vertices, TexturedVertexSize)
		m.vertexCount = len(vertices)
		m.layout = TexturedVertexLayout()
	}
}

// WithPositionVertices sets the geometry to the given bare positions.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - MeshBuilderOption: a function that packs the vertices and sets the layout
func WithPositionVertices(vertices []PositionVertex) MeshBuilderOption {
	return func(m *mesh) {
		m.vertexData = marshalVertices(vertices, PositionVertexSize)
		m.vertexCount = len(vertices)
		m.layout = PositionVertexLayout()
	}
}

// WithIndices makes the mesh indexed.
//
// Parameters:
//   - indices: triangle (or line) indices into the vertex list
//
// Returns:
//   - MeshBuilderOption: a function that packs the indices as uint32
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indexData = marshalIndices(indices)
		m.indexCount = len(indices)
	}
}

// WithTopology sets the primitive topology. Defaults to triangle list.
//
// Parameters:
//   - topology: the primitive topology
//
// Returns:
//   - MeshBuilderOption: a function that sets the topology
func WithTopology(topology wgpu.PrimitiveTopology) MeshBuilderOption {
	return func(m *mesh) {
		m.topology = topology
	}
}

// WithMeshProvider uses an existing provider for the GPU buffers.
//
// Parameters:
//   - provider: the provider to fill
//
// Returns:
//   - MeshBuilderOption: a function that sets the provider
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *mesh) {
		m.meshProvider = provider
	}
}
