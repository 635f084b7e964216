package model

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name                  string
	topology              wgpu.PrimitiveTopology
	layout                wgpu.VertexBufferLayout
	vertexData, indexData []byte
	vertexCount           int
	indexCount            int
	meshProvider          bind_group_provider.BindGroupProvider
}

// Mesh is CPU-side geometry ready for upload: packed vertex bytes, optional uint32 indices, the
// vertex layout a shader reads them with, and the provider that will hold the GPU buffers.
//
// The Renderer fills the provider with InitMeshBuffers(m.MeshProvider(), m.VertexData(),
// m.VertexCount(), m.IndexData(), m.IndexCount()).
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Topology returns how the vertices are assembled into primitives.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: line list or triangle list
	Topology() wgpu.PrimitiveTopology

	// VertexLayout returns the layout of one vertex in VertexData.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the layout
	VertexLayout() wgpu.VertexBufferLayout

	// VertexData returns the packed vertex bytes.
	//
	// Returns:
	//   - []byte: the vertex buffer contents
	VertexData() []byte

	// IndexData returns the packed uint32 indices, or nil for non-indexed meshes.
	//
	// Returns:
	//   - []byte: the index buffer contents
	IndexData() []byte

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices, 0 for non-indexed meshes.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// MeshProvider retrieves the BindGroupProvider that holds (or will hold) the GPU buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// Release frees the GPU buffers held by the mesh provider.
	Release()
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh. A provider labelled with the mesh name is created unless
// WithMeshProvider supplies one.
//
// Parameters:
//   - name: the mesh name, also the debug label of its GPU buffers
//   - options: functional options supplying geometry
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(name string, options ...MeshBuilderOption) Mesh {
	m := &mesh{
		name:     name,
		topology: wgpu.PrimitiveTopologyTriangleList,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(name)
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Topology() wgpu.PrimitiveTopology {
	return m.topology
}

func (m *mesh) VertexLayout() wgpu.VertexBufferLayout {
	return m.layout
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *mesh) Release() {
	if m.meshProvider != nil {
		m.meshProvider.Release()
	}
}
