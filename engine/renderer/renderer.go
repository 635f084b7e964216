package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uploader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	uploader    uploader.Uploader
	logger      *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device, a cache of registered pipelines and the shared per-draw
// transform buffer. Each frame is described as an ordered list of Pass values and recorded by
// DrawFrame, which acquires the swapchain image, runs Sequence over the passes, and presents.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each Pipeline via the backend and
	// caches it by PipelineKey. Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and its depth/MSAA targets. Zero or negative sizes
	// (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the new targets could not be created
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode. A call to Resize is required after changing
	// this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - vertexCount: the number of vertices, used by non-indexed draws
	//   - indexData: the raw uint32 index bytes, or nil for non-indexed meshes
	//   - indexCount: the number of indices, used by indexed draws
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via
	// InitTextureView, InitCubemapView and InitSampler before calling this method.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates a 2D GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitCubemapView creates a cube texture from six faces and stores its cube view on the given
	// BindGroupProvider at the specified binding index.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the six faces and their edge length
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitCubemapView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.CubemapStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// DrawFrame acquires the next swapchain image, records passes in order and presents the
	// result. The image is presented even when a pass fails so the next frame can acquire.
	//
	// Parameters:
	//   - passes: the ordered pass list for this frame
	//
	// Returns:
	//   - error: an error if the image could not be acquired or a pass failed
	DrawFrame(passes []Pass) error

	// LastTransform returns the most recent (world, view-projection) pair written to the GPU.
	//
	// Returns:
	//   - uploader.TransformUniform: the last uploaded pair
	LastTransform() uploader.TransformUniform

	// Release frees every pipeline and GPU object owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, bound to the
// surface of the given window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window supplying the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the GPU device or the frame targets could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        slog.Default(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("renderer: configure surface: %w", err)
	}
	if err := r.backend.InitTransformBuffer(); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("renderer: transform buffer: %w", err)
	}
	r.uploader = uploader.NewUploader(r.backend)

	r.logger.Info("renderer ready",
		"msaa", uint32(msaa),
		"software", r.forceFallbackAdapter,
		"width", win.Width(),
		"height", win.Height(),
	)
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("resize %dx%d: %w", width, height, err)
	}
	r.logger.Debug("surface resized", "width", width, "height", height)
	return nil
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("pipeline registered", "key", key, "state", fmt.Sprintf("%+v", p.State()))
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, vertexCount, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitCubemapView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.CubemapStagingData) error {
	return r.backend.InitCubemapView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) DrawFrame(passes []Pass) error {
	if err := r.backend.AcquireFrame(); err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}
	defer r.backend.Present()

	return Sequence(&framePassEncoder{r: r}, r.uploader, passes)
}

func (r *renderer) LastTransform() uploader.TransformUniform {
	return r.uploader.Last()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

// framePassEncoder adapts the backend to PassEncoder, resolving pipeline keys through the
// renderer's cache.
type framePassEncoder struct {
	r *renderer
}

var _ PassEncoder = &framePassEncoder{}

func (e *framePassEncoder) BeginPass(clear bool) error {
	return e.r.backend.BeginPass(clear)
}

func (e *framePassEncoder) SetPipelineState(p Pass) error {
	pl := e.r.Pipeline(p.PipelineKey)
	if pl == nil {
		return fmt.Errorf("render pipeline %q not found in cache", p.PipelineKey)
	}
	if pl.State() != p.State {
		return fmt.Errorf("render pipeline %q has state %+v, pass wants %+v", p.PipelineKey, pl.State(), p.State)
	}
	return e.r.backend.BindPipeline(pl)
}

func (e *framePassEncoder) SetResources(p Pass) error {
	return e.r.backend.BindResources(p.Mesh, p.Material)
}

func (e *framePassEncoder) Draw(p Pass) {
	e.r.backend.Draw(p.Indexed(), uint32(p.ElementCount()))
}

func (e *framePassEncoder) ResetPipelineState() {
	e.r.backend.ResetPipelineState()
}

func (e *framePassEncoder) EndPass() error {
	return e.r.backend.EndPass()
}
