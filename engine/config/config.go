// Package config loads the viewer settings from TOML. Every field has a default, so a missing
// file or a partial file is valid.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the complete viewer configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Camera    CameraConfig    `toml:"camera"`
	Grid      GridConfig      `toml:"grid"`
	Assets    AssetsConfig    `toml:"assets"`
	Renderer  RendererConfig  `toml:"renderer"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Profiler  ProfilerConfig  `toml:"profiler"`
}

// WindowConfig holds the initial window settings.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// CameraConfig holds the initial orbit and the input rates. Angles are in degrees.
type CameraConfig struct {
	YawDeg          float32 `toml:"yaw_deg"`
	PitchDeg        float32 `toml:"pitch_deg"`
	Radius          float32 `toml:"radius"`
	DragSensitivity float32 `toml:"drag_sensitivity"`
	ZoomIn          float32 `toml:"zoom_in"`
	ZoomOut         float32 `toml:"zoom_out"`
}

// GridConfig holds the ground grid dimensions.
type GridConfig struct {
	CellSize  float32 `toml:"cell_size"`
	HalfCells int     `toml:"half_cells"`
}

// AssetsConfig holds the image paths. Missing files are replaced by procedural images.
type AssetsConfig struct {
	BoxTexture string `toml:"box_texture"`
	// SkyFaces lists the cube faces in +X, -X, +Y, -Y, +Z, -Z order.
	SkyFaces []string `toml:"sky_faces"`
	Workers  int      `toml:"workers"`
}

// RendererConfig holds GPU settings.
type RendererConfig struct {
	MSAA          int        `toml:"msaa"`
	ForceSoftware bool       `toml:"force_software"`
	ClearColor    [3]float64 `toml:"clear_color"`
}

// LogConfig selects the log level, format and destination. An empty File logs to stderr.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// TelemetryConfig controls the websocket state stream.
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// ProfilerConfig controls the periodic FPS and memory log.
type ProfilerConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			YawDeg:          225,
			PitchDeg:        30,
			Radius:          18,
			DragSensitivity: 0.005,
			ZoomIn:          0.9,
			ZoomOut:         1.1,
		},
		Grid: GridConfig{
			CellSize:  1,
			HalfCells: 20,
		},
		Assets: AssetsConfig{
			BoxTexture: "assets/box.png",
			SkyFaces: []string{
				"assets/sky/px.png", "assets/sky/nx.png",
				"assets/sky/py.png", "assets/sky/ny.png",
				"assets/sky/pz.png", "assets/sky/nz.png",
			},
			Workers: 4,
		},
		Renderer: RendererConfig{
			MSAA:       4,
			ClearColor: [3]float64{0.08, 0.09, 0.11},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// Load reads a TOML file over the defaults and validates the result. An empty path or a
// missing file yields the defaults. Unknown keys are rejected.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the loaded configuration
//   - error: a parse error, or an error wrapping ErrInvalid
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating parent directories as needed.
//
// Parameters:
//   - path: the destination file
//   - cfg: the configuration to write
//
// Returns:
//   - error: an error if encoding or writing fails
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate reports every out-of-range value, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)

	check(c.Camera.Radius >= 0, "camera.radius %v is negative", c.Camera.Radius)
	check(c.Camera.DragSensitivity > 0, "camera.drag_sensitivity %v must be positive", c.Camera.DragSensitivity)
	check(c.Camera.ZoomIn > 0 && c.Camera.ZoomIn < 1, "camera.zoom_in %v must be in (0, 1)", c.Camera.ZoomIn)
	check(c.Camera.ZoomOut > 1, "camera.zoom_out %v must be greater than 1", c.Camera.ZoomOut)

	check(c.Grid.CellSize > 0, "grid.cell_size %v must be positive", c.Grid.CellSize)
	check(c.Grid.HalfCells > 0, "grid.half_cells %d must be positive", c.Grid.HalfCells)

	check(len(c.Assets.SkyFaces) == 6, "assets.sky_faces has %d entries, want 6", len(c.Assets.SkyFaces))
	check(c.Assets.Workers > 0, "assets.workers %d must be positive", c.Assets.Workers)

	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		check(false, "renderer.msaa %d must be 1, 4, 8 or 16", c.Renderer.MSAA)
	}
	for i, v := range c.Renderer.ClearColor {
		check(v >= 0 && v <= 1, "renderer.clear_color[%d] %v must be in [0, 1]", i, v)
	}

	_, levelErr := ParseLevel(c.Log.Level)
	check(levelErr == nil, "log.level %q", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format %q must be text or json", c.Log.Format)

	check(!c.Telemetry.Enabled || c.Telemetry.Addr != "", "telemetry.addr is empty")

	return errors.Join(errs...)
}
