package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uploader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys referenced by the scene's passes.
const (
	PipelineSkybox = "skybox"
	PipelineGrid   = "grid"
	PipelineBox    = "box"
)

func transformLayout() shader.ShaderBuilderOption {
	return shader.WithBindGroupLayout(shader.TransformGroup, shader.TransformBindGroupLayout(uploader.TransformSize))
}

func newSkyPipeline(layout wgpu.VertexBufferLayout) pipeline.Pipeline {
	src := shader.MustLoadSource(shader.SourceSkybox)
	return pipeline.NewPipeline(PipelineSkybox,
		pipeline.WithVertexShader(shader.NewShader("skybox_vs", shader.ShaderTypeVertex, src,
			shader.WithVertexLayout(layout),
			transformLayout(),
		)),
		pipeline.WithFragmentShader(shader.NewShader("skybox_fs", shader.ShaderTypeFragment, src,
			shader.WithBindGroupLayout(shader.MaterialGroup, shader.TextureBindGroupLayout(wgpu.TextureViewDimensionCube)),
		)),
		pipeline.WithState(pipeline.SkyboxState()),
	)
}

func newGridPipeline(layout wgpu.VertexBufferLayout) pipeline.Pipeline {
	src := shader.MustLoadSource(shader.SourceColorLines)
	return pipeline.NewPipeline(PipelineGrid,
		pipeline.WithVertexShader(shader.NewShader("color_lines_vs", shader.ShaderTypeVertex, src,
			shader.WithVertexLayout(layout),
			transformLayout(),
		)),
		pipeline.WithFragmentShader(shader.NewShader("color_lines_fs", shader.ShaderTypeFragment, src)),
		pipeline.WithState(pipeline.LineState()),
	)
}

func newBoxPipeline(layout wgpu.VertexBufferLayout) pipeline.Pipeline {
	src := shader.MustLoadSource(shader.SourceTextured)
	return pipeline.NewPipeline(PipelineBox,
		pipeline.WithVertexShader(shader.NewShader("textured_vs", shader.ShaderTypeVertex, src,
			shader.WithVertexLayout(layout),
			transformLayout(),
		)),
		pipeline.WithFragmentShader(shader.NewShader("textured_fs", shader.ShaderTypeFragment, src,
			shader.WithBindGroupLayout(shader.MaterialGroup, shader.TextureBindGroupLayout(wgpu.TextureViewDimension2D)),
		)),
		pipeline.WithState(pipeline.DefaultState()),
	)
}
