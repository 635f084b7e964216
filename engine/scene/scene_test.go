package scene

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/picking"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(radius, pitchDeg, yawDeg float32, options ...SceneBuilderOption) (Scene, *int) {
	cam := camera.NewCamera(
		camera.WithViewport(1280, 720),
		camera.WithController(camera.NewCameraController(
			camera.WithRadius(radius),
			camera.WithPitch(common.Radians(pitchDeg)),
			camera.WithYaw(common.Radians(yawDeg)),
		)),
	)
	opts := append([]SceneBuilderOption{
		WithCamera(cam),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, options...)
	s := NewScene("", opts...)

	changes := new(int)
	s.SetChangeCallback(func() { *changes++ })
	return s, changes
}

func TestNewSceneDefaults(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)

	assert.Equal(t, DefaultTitle, s.Name())
	assert.Equal(t, picking.DefaultGrid, s.Grid())
	assert.Equal(t, picking.HiddenBoxTransform(), s.BoxTransform())
	_, visible := s.BoxCell()
	assert.False(t, visible)

	meshes := s.Meshes()
	require.Len(t, meshes, 3)
	assert.Equal(t, 8, meshes[0].VertexCount())
	assert.Equal(t, 164, meshes[1].VertexCount())
	assert.Equal(t, 24, meshes[2].VertexCount())
}

func TestInvalidGridFallsBack(t *testing.T) {
	s, _ := newTestScene(10, 30, 45, WithGrid(picking.Grid{CellSize: 0, HalfCells: 3}))
	assert.Equal(t, picking.DefaultGrid, s.Grid())
}

func TestPassesOrderAndState(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)
	cam := s.Camera()

	passes := s.Passes()
	require.Len(t, passes, 3)

	sky, grid, box := passes[0], passes[1], passes[2]
	assert.Equal(t, "skybox", sky.Name)
	assert.Equal(t, "grid", grid.Name)
	assert.Equal(t, "box", box.Name)

	assert.Equal(t, pipeline.SkyboxState(), sky.State)
	assert.Equal(t, pipeline.LineState(), grid.State)
	assert.True(t, box.State.IsDefault())

	assert.Equal(t, cam.SkyViewProjectionMatrix(), sky.ViewProj)
	assert.Equal(t, cam.ViewProjectionMatrix(), grid.ViewProj)
	assert.Equal(t, cam.ViewProjectionMatrix(), box.ViewProj)
	assert.Equal(t, common.IdentityMatrix(), sky.World)
	assert.Equal(t, common.IdentityMatrix(), grid.World)
	assert.Equal(t, s.BoxTransform(), box.World)

	assert.Same(t, s.SkyMaterial(), sky.Material)
	assert.Nil(t, grid.Material)
	assert.Same(t, s.BoxMaterial(), box.Material)

	assert.True(t, sky.Indexed())
	assert.Equal(t, 36, sky.ElementCount())
	assert.False(t, grid.Indexed())
	assert.Equal(t, 164, grid.ElementCount())
	assert.Equal(t, 36, box.ElementCount())
}

func TestPipelinesMatchPasses(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)

	byKey := make(map[string]pipeline.Pipeline)
	for _, p := range s.Pipelines() {
		byKey[p.PipelineKey()] = p
	}
	for _, pass := range s.Passes() {
		p, ok := byKey[pass.PipelineKey]
		require.True(t, ok, "no pipeline for %s", pass.PipelineKey)
		assert.Equal(t, pass.State, p.State(), pass.Name)
	}
}

func TestOnClickPlacesBox(t *testing.T) {
	s, changes := newTestScene(10, 30, 45)

	require.True(t, s.OnClick(800, 450))
	cell, visible := s.BoxCell()
	assert.True(t, visible)
	assert.Equal(t, common.Vec3{3.5, 0, 0.5}, cell)
	assert.Equal(t, s.Grid().BoxTransform(cell), s.BoxTransform())
	assert.Equal(t, s.BoxTransform(), s.Passes()[2].World)
	assert.Equal(t, 1, *changes)
}

func TestOnClickMissKeepsBox(t *testing.T) {
	s, changes := newTestScene(10, 10, 0)

	// top edge looks 20 degrees above the horizon
	assert.False(t, s.OnClick(640, 0))
	assert.Equal(t, picking.HiddenBoxTransform(), s.BoxTransform())

	require.True(t, s.OnClick(640, 700))
	placed := s.BoxTransform()
	assert.False(t, s.OnClick(640, 0))
	assert.Equal(t, placed, s.BoxTransform())
	assert.Equal(t, 1, *changes)
}

func TestOnPointerMoveOrbits(t *testing.T) {
	s, changes := newTestScene(10, 30, 0)
	ctrl := s.Camera().Controller()

	s.OnPointerMove(100, 0)
	assert.InDelta(t, 0.5, ctrl.Yaw(), 1e-5)

	pitch := ctrl.Pitch()
	s.OnPointerMove(0, 100)
	assert.InDelta(t, pitch-0.5, ctrl.Pitch(), 1e-5)

	s.OnPointerMove(0, 0)
	assert.Equal(t, 2, *changes)
}

func TestOnPointerMoveUsesSensitivity(t *testing.T) {
	s, _ := newTestScene(10, 0, 0, WithDragSensitivity(0.01))
	s.OnPointerMove(10, 0)
	assert.InDelta(t, 0.1, s.Camera().Controller().Yaw(), 1e-5)
}

func TestOnWheelZooms(t *testing.T) {
	s, changes := newTestScene(10, 30, 45)
	ctrl := s.Camera().Controller()

	s.OnWheel(1)
	assert.InDelta(t, 9, ctrl.Radius(), 1e-4)
	s.OnWheel(-3)
	assert.InDelta(t, 9.9, ctrl.Radius(), 1e-4)
	s.OnWheel(0)
	assert.InDelta(t, 9.9, ctrl.Radius(), 1e-4)
	assert.Equal(t, 2, *changes)
}

func TestOnKey(t *testing.T) {
	s, changes := newTestScene(10, 30, 45)
	start := s.Camera().Position()

	s.OnPointerMove(200, 50)
	s.OnKey(common.KeyR)
	assert.Equal(t, start, s.Camera().Position())

	require.True(t, s.OnClick(800, 450))
	s.OnKey(common.KeyH)
	_, visible := s.BoxCell()
	assert.False(t, visible)
	assert.Equal(t, picking.HiddenBoxTransform(), s.BoxTransform())

	// hiding a hidden box is not a change
	before := *changes
	s.OnKey(common.KeyH)
	s.OnKey(common.KeySpace)
	assert.Equal(t, before, *changes)
}

func TestOnResize(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)

	s.OnResize(800, 600)
	w, h := s.Camera().Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	s.OnResize(0, 0)
	w, h = s.Camera().Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestTitle(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)
	assert.Equal(t, "oxy-viewer | CamPos: (6.12, 5.00, 6.12)", s.Title())
}

func TestSnapshotJSON(t *testing.T) {
	s, _ := newTestScene(10, 30, 45)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"cell"`)

	require.True(t, s.OnClick(800, 450))
	snap := s.Snapshot()
	require.NotNil(t, snap.Box.Cell)
	assert.Equal(t, [3]float32{3.5, 0, 0.5}, *snap.Box.Cell)
	assert.InDelta(t, 10, snap.Camera.Radius, 1e-5)

	data, err = json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cell":[3.5,0,0.5]`)
	assert.Contains(t, string(data), `"visible":true`)
}
