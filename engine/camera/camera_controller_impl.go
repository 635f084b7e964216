package camera

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

const (
	// DefaultPitchLimit bounds the pitch to ±85°.
	DefaultPitchLimit = 85.0 * math32.Pi / 180.0
	// DefaultMinRadius is the closest the camera may orbit.
	DefaultMinRadius = 2.0
	// DefaultMaxRadius is the farthest the camera may orbit.
	DefaultMaxRadius = 200.0

	// upFlipThreshold is the absolute pitch past which the up vector switches to +Z.
	upFlipThreshold = 89.5 * math32.Pi / 180.0
)

// cameraControllerImpl is the single implementation of CameraController.
// It is not safe for concurrent use; it is owned by the render goroutine.
type cameraControllerImpl struct {
	// Spherical coordinates around the origin
	yaw    float32
	pitch  float32
	radius float32

	// Constraints
	pitchLimit float32
	minRadius  float32
	maxRadius  float32

	// Values restored by Reset
	initialYaw    float32
	initialPitch  float32
	initialRadius float32

	position common.Vec3
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller. The initial state is sanitized with the same
// rules as Orbit and Zoom, so a radius of 0 starts at the minimum radius.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		yaw:        0,
		pitch:      0,
		radius:     DefaultMinRadius,
		pitchLimit: DefaultPitchLimit,
		minRadius:  DefaultMinRadius,
		maxRadius:  DefaultMaxRadius,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.minRadius > cc.maxRadius {
		cc.minRadius, cc.maxRadius = cc.maxRadius, cc.minRadius
	}
	cc.pitchLimit = math32.Abs(cc.pitchLimit)
	cc.sanitize()

	cc.initialYaw = cc.yaw
	cc.initialPitch = cc.pitch
	cc.initialRadius = cc.radius

	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// sanitize wraps yaw and clamps pitch and radius into their valid ranges.
func (cc *cameraControllerImpl) sanitize() {
	if !common.IsFinite(cc.yaw) {
		cc.yaw = 0
	}
	if !common.IsFinite(cc.pitch) {
		cc.pitch = 0
	}
	if math32.IsNaN(cc.radius) {
		cc.radius = cc.minRadius
	}
	cc.yaw = common.WrapAngle(cc.yaw)
	cc.pitch = common.Clamp(cc.pitch, -cc.pitchLimit, cc.pitchLimit)
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever yaw, pitch or radius changes.
func (cc *cameraControllerImpl) updatePosition() {
	sinPitch, cosPitch := math32.Sincos(cc.pitch)
	sinYaw, cosYaw := math32.Sincos(cc.yaw)

	cc.position = common.Vec3{
		cc.radius * cosPitch * cosYaw,
		cc.radius * sinPitch,
		cc.radius * cosPitch * sinYaw,
	}
}

// upVector picks the look-at up axis for a pitch angle.
func upVector(pitch float32) common.Vec3 {
	if math32.Abs(pitch) > upFlipThreshold {
		return common.Vec3{0, 0, 1}
	}
	return common.Vec3{0, 1, 0}
}

// --- CameraController implementation ---

func (cc *cameraControllerImpl) Orbit(deltaYaw, deltaPitch float32) {
	if !common.IsFinite(deltaYaw, deltaPitch) {
		return
	}
	cc.yaw += deltaYaw
	cc.pitch += deltaPitch
	cc.sanitize()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(factor float32) {
	if !common.IsFinite(factor) {
		return
	}
	cc.radius *= factor
	cc.sanitize()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	return common.Vec3{}
}

func (cc *cameraControllerImpl) Up() common.Vec3 {
	return upVector(cc.pitch)
}

func (cc *cameraControllerImpl) Yaw() float32 {
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	return cc.pitch
}

func (cc *cameraControllerImpl) Radius() float32 {
	return cc.radius
}

func (cc *cameraControllerImpl) PitchLimit() float32 {
	return cc.pitchLimit
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Reset() {
	cc.yaw = cc.initialYaw
	cc.pitch = cc.initialPitch
	cc.radius = cc.initialRadius
	cc.updatePosition()
}
