package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/telemetry"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Material bindings inside shader.MaterialGroup.
const (
	textureBinding = 0
	samplerBinding = 1
)

// engine implements the Engine interface.
// Input callbacks, the update and the draw all run on the window's goroutine. The telemetry
// publisher is the only other goroutine.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	assets   *loader.Assets
	hub      telemetry.Hub
	logger   *slog.Logger

	drag  window.DragTracker
	dirty bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	lastFrameErr     string

	snapshotChannel chan scene.Snapshot
	quitChannel     chan struct{}
	quitOnce        sync.Once
	wg              sync.WaitGroup
}

// Engine is the main entry point for the viewer.
// It wires window input to the scene, uploads the scene's GPU resources once, and runs one
// update and draw per window message loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing the scene.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scene returns the scene being viewed.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called after each drawn frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main loop and blocks until the window closes.
	Run()

	// Quit closes the window, which ends Run. Safe to call multiple times.
	Quit()

	// Release frees the scene's and the renderer's GPU resources. Call after Run returns.
	Release()
}

// NewEngine creates an Engine from a window, a renderer, a scene and decoded assets, all
// supplied as options. The scene's pipelines, meshes and materials are created on the GPU
// before it returns.
//
// Parameters:
//   - options: functional options supplying the engine's parts
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if a part is missing or GPU resource creation fails
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		logger:          slog.Default(),
		snapshotChannel: make(chan scene.Snapshot, 1),
		quitChannel:     make(chan struct{}),
		dirty:           true,
	}
	for _, opt := range options {
		opt(e)
	}

	switch {
	case e.window == nil:
		return nil, errors.New("engine: no window")
	case e.renderer == nil:
		return nil, errors.New("engine: no renderer")
	case e.scene == nil:
		return nil, errors.New("engine: no scene")
	case e.assets == nil:
		return nil, errors.New("engine: no assets")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if err := e.initGPU(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.scene.OnResize(e.window.Width(), e.window.Height())
	e.bindInput()
	return e, nil
}

// initGPU registers the scene's pipelines and fills its mesh and material providers.
func (e *engine) initGPU() error {
	r := e.renderer
	if err := r.RegisterPipelines(e.scene.Pipelines()...); err != nil {
		return err
	}

	for _, m := range e.scene.Meshes() {
		if err := r.InitMeshBuffers(m.MeshProvider(), m.VertexData(), m.VertexCount(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("mesh %s: %w", m.Name(), err)
		}
	}

	sky := e.scene.SkyMaterial()
	if err := r.InitCubemapView(sky, textureBinding, e.assets.Sky); err != nil {
		return fmt.Errorf("sky cubemap: %w", err)
	}
	if err := r.InitSampler(sky, samplerBinding, common.ClampSampler()); err != nil {
		return fmt.Errorf("sky sampler: %w", err)
	}
	if err := r.InitBindGroup(sky, shader.TextureBindGroupLayout(wgpu.TextureViewDimensionCube)); err != nil {
		return fmt.Errorf("sky bind group: %w", err)
	}

	box := e.scene.BoxMaterial()
	if err := r.InitTextureView(box, textureBinding, e.assets.BoxTexture); err != nil {
		return fmt.Errorf("box texture: %w", err)
	}
	if err := r.InitSampler(box, samplerBinding, common.SamplerStagingData{}); err != nil {
		return fmt.Errorf("box sampler: %w", err)
	}
	if err := r.InitBindGroup(box, shader.TextureBindGroupLayout(wgpu.TextureViewDimension2D)); err != nil {
		return fmt.Errorf("box bind group: %w", err)
	}

	e.logger.Debug("scene resources ready",
		"pipelines", len(r.Pipelines()),
		"sky_size", e.assets.Sky.Size,
		"box_width", e.assets.BoxTexture.Width,
		"box_height", e.assets.BoxTexture.Height,
	)
	return nil
}

// bindInput routes window events to the scene. The right button orbits; left and middle pick.
func (e *engine) bindInput() {
	e.scene.SetChangeCallback(func() { e.dirty = true })

	e.window.SetResizeCallback(func(width, height int) {
		if err := e.renderer.Resize(width, height); err != nil {
			e.logger.Error("resize failed", "width", width, "height", height, "error", err)
			return
		}
		e.scene.OnResize(width, height)
	})
	e.window.SetScrollCallback(e.scene.OnWheel)
	e.window.SetKeyDownCallback(e.scene.OnKey)
	e.window.SetMouseButtonCallback(func(button common.MouseButton, pressed bool, x, y float32) {
		switch button {
		case common.MouseButtonRight:
			if pressed {
				e.drag.Press(x, y)
			} else {
				e.drag.Release()
			}
		case common.MouseButtonLeft, common.MouseButtonMiddle:
			if pressed {
				e.scene.OnClick(x, y)
			}
		}
	})
	e.window.SetMouseMoveCallback(func(x, y float32) {
		if dx, dy, ok := e.drag.Move(x, y); ok {
			e.scene.OnPointerMove(dx, dy)
		}
	})
	e.window.SetUpdateCallback(e.frame)
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run() {
	if e.hub != nil {
		e.wg.Add(1)
		go e.handleTelemetry()
	}
	e.lastFrame = time.Now()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	if err := e.window.Close(); err != nil {
		e.logger.Warn("window close failed", "error", err)
	}
}

func (e *engine) Release() {
	e.signalQuit()
	e.scene.Release()
	e.renderer.Release()
}

// signalQuit closes the quit channel to stop the telemetry goroutine.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// frame runs one update and draw. Called once per message loop iteration.
func (e *engine) frame() {
	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.dirty {
		e.dirty = false
		e.window.SetTitle(e.scene.Title())
		e.publish()
	}

	if err := e.renderer.DrawFrame(e.scene.Passes()); err != nil {
		// one log line per distinct failure; a lost surface fails every frame
		if msg := err.Error(); msg != e.lastFrameErr {
			e.logger.Error("frame failed", "error", err)
			e.lastFrameErr = msg
		}
	} else {
		e.lastFrameErr = ""
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	e.profiler.Tick()

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// publish hands the latest snapshot to the telemetry goroutine without blocking. A pending
// snapshot that was not sent yet is replaced.
func (e *engine) publish() {
	if e.hub == nil {
		return
	}
	snap := e.scene.Snapshot()
	snap.FPS = e.profiler.FPS()

	select {
	case e.snapshotChannel <- snap:
	default:
		select {
		case <-e.snapshotChannel:
		default:
		}
		e.snapshotChannel <- snap
	}
}

// handleTelemetry sends snapshots to the hub until quit.
func (e *engine) handleTelemetry() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quitChannel:
			return
		case snap := <-e.snapshotChannel:
			if err := e.hub.Publish(snap); err != nil {
				e.logger.Warn("telemetry publish failed", "error", err)
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	if !e.profilingEnabled {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
		e.profilingEnabled = true
	}
}

// DisableProfiler disables performance profiling output. The frame rate is still measured.
func (e *engine) DisableProfiler() {
	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler()
		e.profilingEnabled = false
	}
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
