package engine

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/uploader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs the update callback a fixed number of times per ProcessMessages.
type fakeWindow struct {
	width, height int
	frames        int
	title         string
	closed        bool

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKey         func(keyCode uint32)
	onMouseButton func(button common.MouseButton, pressed bool, x, y float32)
	onMouseMove   func(x, y float32)
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32)) { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32)) { w.onKey = cb }
func (w *fakeWindow) SetMouseButtonCallback(cb func(common.MouseButton, bool, float32, float32)) {
	w.onMouseButton = cb
}
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float32)) { w.onMouseMove = cb }
func (w *fakeWindow) SetTitle(title string) { w.title = title }
func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return !w.closed }
func (w *fakeWindow) Close() error { w.closed = true; return nil }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && !w.closed; i++ {
		w.onUpdate()
	}
	w.closed = true
}

// fakeRenderer records resource calls and drawn frames.
type fakeRenderer struct {
	pipelines map[string]pipeline.Pipeline
	calls     []string
	samplers  []common.SamplerStagingData
	layouts   []wgpu.TextureViewDimension
	frames    [][]renderer.Pass
	resized   [2]int
	drawErr   error
	released  bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (r *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return r.pipelines[key] }
func (r *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return r.pipelines }
func (r *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}
func (r *fakeRenderer) LastTransform() uploader.TransformUniform { return uploader.TransformUniform{} }
func (r *fakeRenderer) Release() { r.released = true }
func (r *fakeRenderer) Resize(width, height int) error { r.resized = [2]int{width, height}; return nil }

func (r *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		r.pipelines[p.PipelineKey()] = p
		r.calls = append(r.calls, "pipeline:"+p.PipelineKey())
	}
	return nil
}

func (r *fakeRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, _ []byte, _ int, _ []byte, _ int) error {
	r.calls = append(r.calls, "mesh:"+p.Label())
	return nil
}

func (r *fakeRenderer) InitBindGroup(p bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	r.calls = append(r.calls, "bindgroup:"+p.Label())
	for _, entry := range d.Entries {
		if entry.Binding == textureBinding {
			r.layouts = append(r.layouts, entry.Texture.ViewDimension)
		}
	}
	return nil
}

func (r *fakeRenderer) InitTextureView(p bind_group_provider.BindGroupProvider, _ int, _ common.TextureStagingData) error {
	r.calls = append(r.calls, "texture:"+p.Label())
	return nil
}

func (r *fakeRenderer) InitCubemapView(p bind_group_provider.BindGroupProvider, _ int, _ common.CubemapStagingData) error {
	r.calls = append(r.calls, "cubemap:"+p.Label())
	return nil
}

func (r *fakeRenderer) InitSampler(p bind_group_provider.BindGroupProvider, _ int, s common.SamplerStagingData) error {
	r.calls = append(r.calls, "sampler:"+p.Label())
	r.samplers = append(r.samplers, s)
	return nil
}

func (r *fakeRenderer) DrawFrame(passes []renderer.Pass) error {
	r.frames = append(r.frames, passes)
	return r.drawErr
}

// fakeHub collects published snapshots.
type fakeHub struct {
	mu        sync.Mutex
	published []any
}

func (h *fakeHub) Handler() http.Handler { return nil }
func (h *fakeHub) ClientCount() int { return 0 }
func (h *fakeHub) Close() {}

func (h *fakeHub) Publish(v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.published = append(h.published, v)
	return nil
}

func (h *fakeHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.published)
}

func testAssets() loader.Assets {
	return loader.Assets{
		BoxTexture: loader.Checkerboard(8, 2, [2][3]uint8{{255, 255, 255}, {0, 0, 0}}),
		Sky:        loader.SkyGradient(4),
	}
}

func testScene() scene.Scene {
	cam := camera.NewCamera(
		camera.WithViewport(1280, 720),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(10),
			camera.WithPitch(common.Radians(30)),
			camera.WithYaw(common.Radians(45)),
		)),
	)
	return scene.NewScene("", scene.WithCamera(cam), scene.WithLogger(quietLogger()))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (*engine, *fakeWindow, *fakeRenderer) {
	t.Helper()
	win := &fakeWindow{width: 1280, height: 720}
	r := newFakeRenderer()
	opts := append([]EngineBuilderOption{
		WithWindow(win),
		WithRenderer(r),
		WithScene(testScene()),
		WithAssets(testAssets()),
		WithLogger(quietLogger()),
	}, options...)
	eng, err := NewEngine(opts...)
	require.NoError(t, err)
	return eng.(*engine), win, r
}

func TestNewEngineRequiresParts(t *testing.T) {
	_, err := NewEngine(WithRenderer(newFakeRenderer()), WithScene(testScene()), WithAssets(testAssets()))
	assert.ErrorContains(t, err, "no window")

	_, err = NewEngine(WithWindow(&fakeWindow{}), WithScene(testScene()), WithAssets(testAssets()))
	assert.ErrorContains(t, err, "no renderer")

	_, err = NewEngine(WithWindow(&fakeWindow{}), WithRenderer(newFakeRenderer()), WithAssets(testAssets()))
	assert.ErrorContains(t, err, "no scene")

	_, err = NewEngine(WithWindow(&fakeWindow{}), WithRenderer(newFakeRenderer()), WithScene(testScene()))
	assert.ErrorContains(t, err, "no assets")
}

func TestNewEngineInitializesSceneResources(t *testing.T) {
	_, _, r := newTestEngine(t)

	assert.Len(t, r.pipelines, 3)
	assert.Contains(t, r.pipelines, scene.PipelineSkybox)
	assert.Contains(t, r.pipelines, scene.PipelineGrid)
	assert.Contains(t, r.pipelines, scene.PipelineBox)

	var meshes int
	for _, c := range r.calls {
		if strings.HasPrefix(c, "mesh:") {
			meshes++
		}
	}
	assert.Equal(t, 3, meshes)

	tail := r.calls[len(r.calls)-6:]
	assert.Equal(t, []string{
		"cubemap:Sky Material", "sampler:Sky Material", "bindgroup:Sky Material",
		"texture:Box Material", "sampler:Box Material", "bindgroup:Box Material",
	}, tail)

	require.Len(t, r.samplers, 2)
	assert.Equal(t, common.ClampSampler(), r.samplers[0])
	assert.Equal(t, common.SamplerStagingData{}, r.samplers[1])
	assert.Equal(t, []wgpu.TextureViewDimension{wgpu.TextureViewDimensionCube, wgpu.TextureViewDimension2D}, r.layouts)
}

func TestRunDrawsOncePerUpdate(t *testing.T) {
	eng, win, r := newTestEngine(t)
	win.frames = 3

	var callbacks int
	eng.SetRenderCallback(func(float32) { callbacks++ })
	eng.Run()

	require.Len(t, r.frames, 3)
	assert.Equal(t, 3, callbacks)
	for _, passes := range r.frames {
		require.Len(t, passes, 3)
		assert.Equal(t, "skybox", passes[0].Name)
		assert.Equal(t, "grid", passes[1].Name)
		assert.Equal(t, "box", passes[2].Name)
	}
	assert.Equal(t, "oxy-viewer | CamPos: (6.12, 5.00, 6.12)", win.title)
}

func TestClickMovesBoxIntoNextFrame(t *testing.T) {
	eng, win, r := newTestEngine(t)

	win.onMouseButton(common.MouseButtonLeft, true, 800, 450)
	eng.frame()

	cell, visible := eng.scene.BoxCell()
	require.True(t, visible)
	assert.InDelta(t, 3.5, cell.X(), 1e-4)
	assert.InDelta(t, 0.5, cell.Z(), 1e-4)

	last := r.frames[len(r.frames)-1]
	assert.Equal(t, eng.scene.BoxTransform(), last[2].World)
}

func TestRightDragOrbits(t *testing.T) {
	eng, win, _ := newTestEngine(t)
	before := eng.scene.Snapshot().Camera

	win.onMouseMove(100, 100)
	assert.Equal(t, before, eng.scene.Snapshot().Camera)

	win.onMouseButton(common.MouseButtonRight, true, 100, 100)
	win.onMouseMove(150, 100)
	after := eng.scene.Snapshot().Camera
	assert.NotEqual(t, before.Yaw, after.Yaw)

	win.onMouseButton(common.MouseButtonRight, false, 150, 100)
	win.onMouseMove(300, 300)
	assert.Equal(t, after, eng.scene.Snapshot().Camera)
}

func TestWheelKeysAndResizeReachScene(t *testing.T) {
	eng, win, r := newTestEngine(t)
	start := eng.scene.Snapshot().Camera.Radius

	win.onScroll(1)
	assert.Less(t, eng.scene.Snapshot().Camera.Radius, start)

	win.onKey(common.KeyR)
	assert.InDelta(t, start, eng.scene.Snapshot().Camera.Radius, 1e-5)

	win.onResize(640, 480)
	assert.Equal(t, [2]int{640, 480}, r.resized)
}

func TestTitleOnlyRefreshedAfterChange(t *testing.T) {
	eng, win, _ := newTestEngine(t)
	eng.frame()
	require.NotEmpty(t, win.title)

	win.title = ""
	eng.frame()
	assert.Empty(t, win.title)

	win.onScroll(-1)
	eng.frame()
	assert.NotEmpty(t, win.title)
}

func TestTelemetryPublishesChanges(t *testing.T) {
	hub := &fakeHub{}
	eng, win, _ := newTestEngine(t, WithTelemetry(hub))

	done := make(chan struct{})
	eng.wg.Add(1)
	go func() {
		defer close(done)
		eng.handleTelemetry()
	}()

	eng.frame()
	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 5*time.Millisecond)

	win.onMouseButton(common.MouseButtonLeft, true, 800, 450)
	eng.frame()
	require.Eventually(t, func() bool { return hub.count() == 2 }, time.Second, 5*time.Millisecond)

	hub.mu.Lock()
	snap, ok := hub.published[1].(scene.Snapshot)
	hub.mu.Unlock()
	require.True(t, ok)
	require.NotNil(t, snap.Box.Cell)
	assert.InDelta(t, 3.5, snap.Box.Cell[0], 1e-4)

	eng.signalQuit()
	<-done
}

func TestFrameErrorLoggedOncePerCause(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	eng, _, r := newTestEngine(t, WithLogger(logger))

	r.drawErr = errors.New("surface lost")
	eng.frame()
	eng.frame()
	eng.frame()
	assert.Equal(t, 1, strings.Count(buf.String(), "frame failed"))

	r.drawErr = nil
	eng.frame()
	r.drawErr = errors.New("surface lost")
	eng.frame()
	assert.Equal(t, 2, strings.Count(buf.String(), "frame failed"))
}

func TestSetRenderFrameLimit(t *testing.T) {
	eng, _, _ := newTestEngine(t, WithRenderFrameLimit(50))
	assert.Equal(t, 20*time.Millisecond, eng.renderFrameLimit)

	eng.SetRenderFrameLimit(0)
	assert.Zero(t, eng.renderFrameLimit)
}

func TestQuitAndRelease(t *testing.T) {
	eng, win, r := newTestEngine(t)
	eng.Quit()
	assert.True(t, win.closed)

	eng.Release()
	eng.Release()
	assert.True(t, r.released)
}

func TestProfilerToggle(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	assert.False(t, eng.profilingEnabled)

	eng.EnableProfiler()
	assert.True(t, eng.profilingEnabled)

	eng.DisableProfiler()
	assert.False(t, eng.profilingEnabled)
}
