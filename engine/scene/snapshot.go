package scene

// Snapshot is the JSON view of the scene state streamed to telemetry clients.
type Snapshot struct {
	Camera CameraSnapshot `json:"camera"`
	Box    BoxSnapshot    `json:"box"`
	// FPS is filled in by the frame loop; the scene itself has no clock.
	FPS float64 `json:"fps"`
}

// CameraSnapshot holds the orbit parameters in radians and the derived position.
type CameraSnapshot struct {
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
	Radius   float32    `json:"radius"`
	Position [3]float32 `json:"position"`
}

// BoxSnapshot reports where the box sits. Cell is omitted while the box is hidden.
type BoxSnapshot struct {
	Visible bool        `json:"visible"`
	Cell    *[3]float32 `json:"cell,omitempty"`
}
