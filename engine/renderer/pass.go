package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

// Pass describes one draw in a frame: which pipeline to bind, what it draws, and the transform
// pair uploaded right before the draw.
type Pass struct {
	// Name identifies the pass in errors and logs (e.g. "skybox").
	Name string
	// PipelineKey selects a registered pipeline.
	PipelineKey string
	// State is the fixed-function state the pass needs. It must match the pipeline's State.
	State pipeline.State
	// Mesh holds the vertex buffer, and the index buffer for indexed draws.
	Mesh bind_group_provider.BindGroupProvider
	// Material holds the texture and sampler bind group. Nil for untextured passes.
	Material bind_group_provider.BindGroupProvider
	// World is the object-to-world matrix.
	World [16]float32
	// ViewProj is the world-to-clip matrix.
	ViewProj [16]float32
}

// Indexed reports whether the pass draws through an index buffer.
func (p Pass) Indexed() bool {
	return p.Mesh != nil && p.Mesh.IndexCount() > 0
}

// ElementCount returns the number of indices for indexed passes, otherwise the vertex count.
func (p Pass) ElementCount() int {
	if p.Mesh == nil {
		return 0
	}
	if p.Indexed() {
		return p.Mesh.IndexCount()
	}
	return p.Mesh.VertexCount()
}
