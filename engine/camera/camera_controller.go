package camera

import "github.com/Carmen-Shannon/oxy-viewer/common"

// CameraController defines the orbit state of a camera: spherical coordinates (yaw, pitch,
// radius) around the world origin. Controllers own positional state; the Camera reads from
// its controller and derives view/projection matrices.
//
// All inputs are sanitized rather than rejected: yaw wraps into [0, 2π), pitch and radius are
// hard-clamped to their bounds, and non-finite values are ignored.
type CameraController interface {
	// Orbit adds the given deltas to yaw and pitch, then wraps yaw and clamps pitch.
	//
	// Parameters:
	//   - deltaYaw: change in yaw in radians
	//   - deltaPitch: change in pitch in radians
	Orbit(deltaYaw, deltaPitch float32)

	// Zoom multiplies the radius by factor and clamps it to the radius bounds.
	// A factor in (0, 1) moves closer, a factor > 1 moves away.
	//
	// Parameters:
	//   - factor: multiplicative radius change
	Zoom(factor float32)

	// Position returns the camera's world-space position derived from yaw, pitch and radius.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point, which is always the world origin.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// Up returns the up vector for the current pitch. It is the world Y axis unless the pitch
	// is within half a degree of vertical, in which case the Z axis is used to keep the
	// look-at basis non-degenerate.
	//
	// Returns:
	//   - common.Vec3: the up vector
	Up() common.Vec3

	// Yaw returns the horizontal angle in radians, always in [0, 2π).
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// Pitch returns the vertical angle in radians, always within the pitch limit.
	//
	// Returns:
	//   - float32: pitch in radians
	Pitch() float32

	// Radius returns the distance from the target, always within the radius bounds.
	//
	// Returns:
	//   - float32: orbit radius
	Radius() float32

	// PitchLimit returns the absolute pitch bound in radians.
	//
	// Returns:
	//   - float32: maximum absolute pitch
	PitchLimit() float32

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Reset restores the yaw, pitch and radius the controller was constructed with.
	Reset()
}
