// Command oxy-viewer opens an orbit-camera view of a skybox, a ground grid and a textured box
// that can be moved onto any grid cell by clicking it.
//
// Controls: right-drag orbits, the wheel zooms, left or middle click moves the box, R resets the
// camera and H hides the box.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/logging"
	"github.com/Carmen-Shannon/oxy-viewer/engine/picking"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/telemetry"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const minWindowSize = 320

func main() {
	configPath := flag.String("config", "oxy-viewer.toml", "path to the TOML config file")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	telemetryAddr := flag.String("telemetry", "", "serve snapshots over websocket on this address")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oxy-viewer: %v\n", err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *telemetryAddr != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Addr = *telemetryAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-viewer: %v\n", err)
		os.Exit(2)
	}

	if *writeConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "oxy-viewer: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oxy-viewer: %v\n", err)
		os.Exit(2)
	}

	code := 0
	if err := run(cfg, logger); err != nil {
		logger.Error("viewer stopped", "error", err)
		code = 1
	}
	if err := closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-viewer: closing log: %v\n", err)
	}
	os.Exit(code)
}

func run(cfg config.Config, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	// ── Assets ──────────────────────────────────────────────────────────
	// decoded before the window opens so a bad file fails fast
	ld := loader.NewLoader(
		loader.WithWorkers(cfg.Assets.Workers),
		loader.WithLogger(logger),
	)
	assets, err := ld.LoadAssets(cfg.Assets.BoxTexture, cfg.Assets.SkyFaces)
	ld.Close()
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(minWindowSize, minWindowSize),
		window.WithResizable(true),
	)
	if err != nil {
		return fmt.Errorf("opening window: %w", err)
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	msaa, _ := renderer.ParseMSAA(cfg.Renderer.MSAA)
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithClearColor(renderer.ClearColorRGB(cfg.Renderer.ClearColor)),
		renderer.WithLogger(logger),
	)
	if err != nil {
		_ = win.Close()
		return fmt.Errorf("creating renderer: %w", err)
	}

	// ── Scene ───────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithViewport(win.Width(), win.Height()),
		camera.WithController(camera.NewCameraController(
			camera.WithYaw(common.Radians(cfg.Camera.YawDeg)),
			camera.WithPitch(common.Radians(cfg.Camera.PitchDeg)),
			camera.WithRadius(cfg.Camera.Radius),
		)),
	)
	sc := scene.NewScene(cfg.Window.Title,
		scene.WithCamera(cam),
		scene.WithGrid(picking.Grid{CellSize: cfg.Grid.CellSize, HalfCells: cfg.Grid.HalfCells}),
		scene.WithDragSensitivity(cfg.Camera.DragSensitivity),
		scene.WithZoomFactors(cfg.Camera.ZoomIn, cfg.Camera.ZoomOut),
		scene.WithLogger(logger),
	)

	// ── Telemetry ───────────────────────────────────────────────────────
	var hub telemetry.Hub
	if cfg.Telemetry.Enabled {
		hub = telemetry.NewHub(logger)
		srv := telemetry.NewServer(cfg.Telemetry.Addr, hub, logger)
		if err := srv.Start(); err != nil {
			sc.Release()
			r.Release()
			_ = win.Close()
			return fmt.Errorf("starting telemetry: %w", err)
		}
		defer func() {
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("telemetry shutdown failed", "error", err)
			}
		}()
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithAssets(assets),
		engine.WithTelemetry(hub),
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Profiler.Enabled),
	)
	if err != nil {
		sc.Release()
		r.Release()
		_ = win.Close()
		return err
	}
	defer eng.Release()

	logger.Info("viewer started",
		"width", win.Width(),
		"height", win.Height(),
		"msaa", cfg.Renderer.MSAA,
		"telemetry", cfg.Telemetry.Enabled,
	)
	eng.Run()
	return nil
}
