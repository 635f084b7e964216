package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// DefaultClearColor is the dark slate the first pass of each frame clears to.
var DefaultClearColor = wgpu.Color{R: 0.08, G: 0.09, B: 0.11, A: 1.0}

// ClearColorRGB builds an opaque clear color from three channels in [0, 1].
//
// Parameters:
//   - rgb: red, green and blue
//
// Returns:
//   - wgpu.Color: the color with alpha 1
func ClearColorRGB(rgb [3]float64) wgpu.Color {
	return wgpu.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1.0}
}

// ParseMSAA maps a sample count to an MSAASampleCount. Unsupported counts fall back to MSAA4x.
//
// Parameters:
//   - samples: 1, 4, 8 or 16
//
// Returns:
//   - MSAASampleCount: the matching sample count
//   - bool: false if samples was not one of the supported counts
func ParseMSAA(samples int) (MSAASampleCount, bool) {
	switch MSAASampleCount(samples) {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return MSAASampleCount(samples), true
	default:
		return MSAA4x, false
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
