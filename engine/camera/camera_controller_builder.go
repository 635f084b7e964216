package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithYaw sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 = +X axis); wrapped into [0, 2π)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}

// WithPitch sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - pitch: vertical angle in radians (0 = horizontal); clamped to the pitch limit
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitch = pitch
	}
}

// WithRadius sets the initial orbit radius (distance from the origin).
//
// Parameters:
//   - radius: distance from the origin; clamped to the radius bounds
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithPitchLimit sets the absolute pitch bound.
//
// Parameters:
//   - limit: maximum absolute pitch in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(limit float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitchLimit = limit
	}
}
