package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/picking"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the orbit camera. A default camera is created when omitted.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithGrid sets the ground grid. Invalid grids fall back to picking.DefaultGrid.
//
// Parameters:
//   - grid: cell size and half cell count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGrid(grid picking.Grid) SceneBuilderOption {
	return func(s *scene) {
		s.grid = grid
	}
}

// WithDragSensitivity sets the orbit rate in radians per pixel.
//
// Parameters:
//   - radiansPerPixel: the rate, ignored when <= 0
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDragSensitivity(radiansPerPixel float32) SceneBuilderOption {
	return func(s *scene) {
		if radiansPerPixel > 0 {
			s.dragSensitivity = radiansPerPixel
		}
	}
}

// WithZoomFactors sets the radius factors for wheel up and wheel down.
//
// Parameters:
//   - in: factor for zooming in, used when in (0, 1)
//   - out: factor for zooming out, used when > 1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithZoomFactors(in, out float32) SceneBuilderOption {
	return func(s *scene) {
		if in > 0 && in < 1 {
			s.zoomIn = in
		}
		if out > 1 {
			s.zoomOut = out
		}
	}
}

// WithSkyHalfSize sets the half edge length of the sky cube.
//
// Parameters:
//   - halfSize: the half size, ignored when <= 0
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkyHalfSize(halfSize float32) SceneBuilderOption {
	return func(s *scene) {
		if halfSize > 0 {
			s.skyHalfSize = halfSize
		}
	}
}

// WithLogger sets the scene logger.
//
// Parameters:
//   - logger: the logger, ignored when nil
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
