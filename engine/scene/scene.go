package scene

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/picking"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
)

const (
	// DefaultDragSensitivity is the orbit rate in radians per dragged pixel.
	DefaultDragSensitivity = 0.005
	// DefaultZoomIn is the radius factor applied for one wheel step up.
	DefaultZoomIn = 0.9
	// DefaultZoomOut is the radius factor applied for one wheel step down.
	DefaultZoomOut = 1.1
	// DefaultTitle prefixes the window title.
	DefaultTitle = "oxy-viewer"
)

// scene is the implementation of the Scene interface.
type scene struct {
	name   string
	logger *slog.Logger

	cam  camera.Camera
	grid picking.Grid

	dragSensitivity float32
	zoomIn, zoomOut float32
	skyHalfSize     float32

	sky, gridMesh, box model.Mesh
	skyMaterial        bind_group_provider.BindGroupProvider
	boxMaterial        bind_group_provider.BindGroupProvider

	boxVisible   bool
	boxCell      common.Vec3
	boxTransform [16]float32

	onChange func()
}

// Scene holds everything one viewer frame is built from: the orbit camera, the ground grid,
// the box and its transform, and the GPU resource holders for the three meshes and two
// materials. It translates input into state changes and state into an ordered pass list.
//
// A Scene is not safe for concurrent use. Input handlers and Passes run on the render goroutine.
type Scene interface {
	// Name retrieves the scene name, used as the window title prefix.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera retrieves the orbit camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Grid retrieves the snapping grid.
	//
	// Returns:
	//   - picking.Grid: the grid
	Grid() picking.Grid

	// Meshes returns the sky, grid and box meshes, in draw order.
	//
	// Returns:
	//   - []model.Mesh: the meshes whose providers need GPU buffers
	Meshes() []model.Mesh

	// SkyMaterial retrieves the provider for the cubemap texture and sampler.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the sky material provider
	SkyMaterial() bind_group_provider.BindGroupProvider

	// BoxMaterial retrieves the provider for the box texture and sampler.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the box material provider
	BoxMaterial() bind_group_provider.BindGroupProvider

	// Pipelines builds the three pipeline descriptions the passes reference.
	//
	// Returns:
	//   - []pipeline.Pipeline: the sky, grid and box pipelines
	Pipelines() []pipeline.Pipeline

	// BoxTransform returns the box world matrix. The box is parked below the ground until the
	// first successful pick.
	//
	// Returns:
	//   - [16]float32: column-major world matrix
	BoxTransform() [16]float32

	// BoxCell returns the centre of the cell the box sits on.
	//
	// Returns:
	//   - common.Vec3: the cell centre
	//   - bool: false while the box is hidden
	BoxCell() (common.Vec3, bool)

	// OnPointerMove orbits the camera by a drag delta. Dragging right increases yaw and
	// dragging down lowers the pitch.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels since the last event
	OnPointerMove(dx, dy float32)

	// OnWheel zooms by one step per event. Positive deltas zoom in, negative zoom out and zero
	// is ignored.
	//
	// Parameters:
	//   - delta: wheel movement
	OnWheel(delta float32)

	// OnClick picks the grid cell under a pixel and moves the box onto it. A miss leaves the
	// box where it was.
	//
	// Parameters:
	//   - sx, sy: cursor position in pixels, origin at the top-left corner
	//
	// Returns:
	//   - bool: whether a cell was picked
	OnClick(sx, sy float32) bool

	// OnResize updates the camera viewport. Sizes with a zero dimension are ignored.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	OnResize(width, height int)

	// OnKey handles viewer hotkeys: R resets the camera and H hides the box.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	OnKey(keyCode uint32)

	// HideBox parks the box below the ground again.
	HideBox()

	// Passes returns this frame's ordered pass list: skybox, grid, box.
	//
	// Returns:
	//   - []renderer.Pass: the passes
	Passes() []renderer.Pass

	// Title formats the window title with the live camera position.
	//
	// Returns:
	//   - string: e.g. "oxy-viewer | CamPos: (6.12, 5.00, 6.12)"
	Title() string

	// Snapshot captures the camera and box state.
	//
	// Returns:
	//   - Snapshot: the current state
	Snapshot() Snapshot

	// SetChangeCallback sets the function called after any camera or box change.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetChangeCallback(callback func())

	// Release frees the GPU resources held by the meshes and materials.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene with its meshes and empty material providers. GPU resources are
// created separately by handing Meshes, SkyMaterial and BoxMaterial to the renderer.
//
// Parameters:
//   - name: the scene name, used as the window title prefix
//   - options: functional options configuring camera, grid and input rates
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:            common.Coalesce(name, DefaultTitle),
		logger:          slog.Default(),
		grid:            picking.DefaultGrid,
		dragSensitivity: DefaultDragSensitivity,
		zoomIn:          DefaultZoomIn,
		zoomOut:         DefaultZoomOut,
		skyHalfSize:     model.DefaultSkyHalfSize,
		boxTransform:    picking.HiddenBoxTransform(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	if !s.grid.Valid() {
		s.logger.Warn("invalid grid, using default", "cell_size", s.grid.CellSize, "half_cells", s.grid.HalfCells)
		s.grid = picking.DefaultGrid
	}

	s.sky = model.NewSkyCubeMesh(s.skyHalfSize)
	s.gridMesh = model.NewGridMesh(s.grid)
	s.box = model.NewBoxMesh()
	s.skyMaterial = bind_group_provider.NewBindGroupProvider("Sky Material")
	s.boxMaterial = bind_group_provider.NewBindGroupProvider("Box Material")
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Grid() picking.Grid {
	return s.grid
}

func (s *scene) Meshes() []model.Mesh {
	return []model.Mesh{s.sky, s.gridMesh, s.box}
}

func (s *scene) SkyMaterial() bind_group_provider.BindGroupProvider {
	return s.skyMaterial
}

func (s *scene) BoxMaterial() bind_group_provider.BindGroupProvider {
	return s.boxMaterial
}

func (s *scene) Pipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{
		newSkyPipeline(s.sky.VertexLayout()),
		newGridPipeline(s.gridMesh.VertexLayout()),
		newBoxPipeline(s.box.VertexLayout()),
	}
}

func (s *scene) BoxTransform() [16]float32 {
	return s.boxTransform
}

func (s *scene) BoxCell() (common.Vec3, bool) {
	return s.boxCell, s.boxVisible
}

func (s *scene) OnPointerMove(dx, dy float32) {
	if !common.IsFinite(dx, dy) || (dx == 0 && dy == 0) {
		return
	}
	s.cam.Orbit(dx*s.dragSensitivity, -dy*s.dragSensitivity)
	s.changed()
}

func (s *scene) OnWheel(delta float32) {
	switch {
	case delta > 0:
		s.cam.Zoom(s.zoomIn)
	case delta < 0:
		s.cam.Zoom(s.zoomOut)
	default:
		return
	}
	s.changed()
}

func (s *scene) OnClick(sx, sy float32) bool {
	width, height := s.cam.Viewport()
	center, ok := picking.Pick(sx, sy, s.cam.ViewMatrix(), s.cam.ProjectionMatrix(), width, height, s.grid)
	if !ok {
		s.logger.Debug("pick missed the ground", "x", sx, "y", sy)
		return false
	}

	s.boxCell = center
	s.boxVisible = true
	s.boxTransform = s.grid.BoxTransform(center)
	s.logger.Debug("box placed", "x", center.X(), "z", center.Z())
	s.changed()
	return true
}

func (s *scene) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.cam.SetViewport(width, height)
}

func (s *scene) OnKey(keyCode uint32) {
	switch keyCode {
	case common.KeyR:
		s.cam.Reset()
		s.changed()
	case common.KeyH:
		s.HideBox()
	}
}

func (s *scene) HideBox() {
	if !s.boxVisible {
		return
	}
	s.boxVisible = false
	s.boxCell = common.Vec3{}
	s.boxTransform = picking.HiddenBoxTransform()
	s.changed()
}

func (s *scene) Passes() []renderer.Pass {
	viewProj := s.cam.ViewProjectionMatrix()
	return []renderer.Pass{
		{
			Name:        "skybox",
			PipelineKey: PipelineSkybox,
			State:       pipeline.SkyboxState(),
			Mesh:        s.sky.MeshProvider(),
			Material:    s.skyMaterial,
			World:       common.IdentityMatrix(),
			ViewProj:    s.cam.SkyViewProjectionMatrix(),
		},
		{
			Name:        "grid",
			PipelineKey: PipelineGrid,
			State:       pipeline.LineState(),
			Mesh:        s.gridMesh.MeshProvider(),
			World:       common.IdentityMatrix(),
			ViewProj:    viewProj,
		},
		{
			Name:        "box",
			PipelineKey: PipelineBox,
			State:       pipeline.DefaultState(),
			Mesh:        s.box.MeshProvider(),
			Material:    s.boxMaterial,
			World:       s.boxTransform,
			ViewProj:    viewProj,
		},
	}
}

func (s *scene) Title() string {
	p := s.cam.Position()
	return fmt.Sprintf("%s | CamPos: (%.2f, %.2f, %.2f)", s.name, p.X(), p.Y(), p.Z())
}

func (s *scene) Snapshot() Snapshot {
	ctrl := s.cam.Controller()
	snap := Snapshot{
		Camera: CameraSnapshot{
			Yaw:      ctrl.Yaw(),
			Pitch:    ctrl.Pitch(),
			Radius:   ctrl.Radius(),
			Position: [3]float32(s.cam.Position()),
		},
		Box: BoxSnapshot{Visible: s.boxVisible},
	}
	if s.boxVisible {
		cell := [3]float32(s.boxCell)
		snap.Box.Cell = &cell
	}
	return snap
}

func (s *scene) SetChangeCallback(callback func()) {
	s.onChange = callback
}

func (s *scene) Release() {
	for _, m := range s.Meshes() {
		m.Release()
	}
	s.skyMaterial.Release()
	s.boxMaterial.Release()
}

func (s *scene) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
