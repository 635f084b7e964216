package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

const (
	// DefaultFov is the fixed vertical field of view (60°) in radians.
	DefaultFov = 60.0 * 3.14159265358979323846 / 180.0
	// DefaultNear is the near clipping plane distance.
	DefaultNear = 0.1
	// DefaultFar is the far clipping plane distance.
	DefaultFar = 1000.0
)

type cameraImpl struct {
	fov  float32
	near float32
	far  float32

	width  int
	height int

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the orbit camera.
// The camera holds perspective settings and derives view/projection matrices from its
// CameraController. The view matrix is never mutated directly: every state change re-derives
// it from yaw, pitch and radius.
//
// A Camera is not safe for concurrent use; input callbacks and rendering share one goroutine.
type Camera interface {
	// Orbit rotates the camera around the origin and recomputes the view matrix.
	//
	// Parameters:
	//   - deltaYaw: change in yaw in radians
	//   - deltaPitch: change in pitch in radians
	Orbit(deltaYaw, deltaPitch float32)

	// Zoom multiplies the orbit radius by factor, clamps it and recomputes the view matrix.
	//
	// Parameters:
	//   - factor: multiplicative radius change, (0, 1) zooms in, > 1 zooms out
	Zoom(factor float32)

	// SetViewport recomputes the projection matrix for a new viewport size.
	// Called on every resize. Sizes with a zero dimension are ignored.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height int)

	// Viewport returns the current viewport size in pixels.
	//
	// Returns:
	//   - width, height: viewport dimensions
	Viewport() (width, height int)

	// Reset restores the controller's initial orbit and recomputes the view matrix.
	Reset()

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: camera position
	Position() common.Vec3

	// Up returns the up vector used for the current view matrix.
	//
	// Returns:
	//   - common.Vec3: up vector
	Up() common.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// SkyViewProjectionMatrix returns projection * view with the view translation dropped,
	// so geometry drawn with it follows camera orientation but not camera position.
	//
	// Returns:
	//   - [16]float32: the translation-free view-projection matrix
	SkyViewProjectionMatrix() [16]float32

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the orbit state
	Controller() CameraController
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the fixed 60° / 0.1 / 1000 perspective and a 1280x720
// viewport. When no controller is supplied, a default orbit controller is created.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov:    DefaultFov,
		near:   DefaultNear,
		far:    DefaultFar,
		width:  1280,
		height: 720,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Orbit(deltaYaw, deltaPitch float32) {
	c.controller.Orbit(deltaYaw, deltaPitch)
	c.updateView()
}

func (c *cameraImpl) Zoom(factor float32) {
	c.controller.Zoom(factor)
	c.updateView()
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.updateProjection()
	c.updateViewProjection()
}

func (c *cameraImpl) Viewport() (width, height int) {
	return c.width, c.height
}

func (c *cameraImpl) Reset() {
	c.controller.Reset()
	c.updateView()
}

func (c *cameraImpl) Position() common.Vec3 {
	return c.controller.Position()
}

func (c *cameraImpl) Up() common.Vec3 {
	return c.controller.Up()
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SkyViewProjectionMatrix() [16]float32 {
	view := common.DropTranslation(c.viewMatrix)
	var out [16]float32
	common.Mul4(out[:], c.projectionMatrix[:], view[:])
	return out
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

// updateView re-derives the view matrix from the controller's spherical state.
func (c *cameraImpl) updateView() {
	eye := c.controller.Position()
	target := c.controller.Target()
	up := c.controller.Up()

	common.LookAt(c.viewMatrix[:],
		eye[0], eye[1], eye[2],
		target[0], target[1], target[2],
		up[0], up[1], up[2],
	)
	c.updateViewProjection()
}

func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.Aspect(), c.near, c.far)
}

func (c *cameraImpl) updateViewProjection() {
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
