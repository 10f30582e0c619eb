// Package viewer implements the mesh viewer main loop.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/assets"
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/debug"
	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/renderer"
	"github.com/Faultbox/meshview/internal/engine/window"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/math"
)

// Title is the window title prefix.
const Title = "MeshView"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	screenshot *debug.ScreenshotCapture

	fetcher *assets.CachedFetcher
	mesh    *mesh.Mesh
	camera  mesh.Camera

	spinSpeed math.Vec3
	spinning  bool
}

// New creates the window, GL state and mesh described by cfg.
// The mesh is not loaded until Run.
func New(cfg *config.Config) (*Viewer, error) {
	policy, err := mesh.ParseIndexPolicy(cfg.Mesh.IndexPolicy)
	if err != nil {
		return nil, err
	}
	format, err := debug.ParseFormat(cfg.Screenshot.Format)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing viewer",
		zap.String("source", cfg.Mesh.Source),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		cfg:        cfg,
		input:      input.New(),
		screenshot: debug.NewScreenshotCapture(cfg.Screenshot.Dir, "meshview", format),
		fetcher:    assets.NewFetcher(cfg.Mesh.Source, cfg.Mesh.HTTPTimeout, cfg.Mesh.BaseDir),
		camera:     cameraFromConfig(cfg.Camera),
		spinSpeed:  degrees(cfg.Mesh.Spin),
		spinning:   true,
	}

	v.mesh = mesh.New("main", cfg.Mesh.Source, v.fetcher,
		mesh.WithConvertOptions(mesh.ConvertOptions{IndexPolicy: policy}),
		mesh.WithLoadTimeout(cfg.Mesh.LoadTimeout),
	)
	v.resetTransform()

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run loads the mesh and runs the frame loop until quit or ctx is done.
// A failed load is logged and can be retried with the reload key.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true
	v.load(ctx)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		if ctx.Err() != nil {
			logger.Info("frame loop cancelled")
			break
		}

		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents(ctx)

		// 2. Update
		v.update(dt)

		// 3. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.input.Triggered(input.ActionScreenshot) {
			v.captureScreenshot()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		v.limitFrameRate(frameStart)
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.mesh != nil {
		v.mesh.Release()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents(ctx context.Context) {
	for _, event := range v.input.Events() {
		if event.Type == input.EventWindowResize {
			v.renderer.Resize(v.window.DrawableSize())
			continue
		}

		switch event.Action {
		case input.ActionReload:
			v.fetcher.Invalidate(v.cfg.Mesh.Source)
			hits, misses := v.fetcher.Cache().Stats()
			logger.Debug("reloading mesh",
				zap.Int("cached", v.fetcher.Cache().Len()),
				zap.Int("cache_hits", hits),
				zap.Int("cache_misses", misses),
			)
			v.load(ctx)
		case input.ActionToggleSpin:
			v.spinning = !v.spinning
		case input.ActionResetRotation:
			v.resetTransform()
		}
	}
}

// load (re)loads the mesh and reflects the outcome in the window title.
func (v *Viewer) load(ctx context.Context) {
	err := v.mesh.Load(ctx, v.renderer.Graphics())
	switch {
	case err == nil:
		b := v.mesh.Bounds()
		center, size := b.Center(), b.Size()
		logger.Debug("mesh bounds",
			zap.Float64s("min", []float64{b.Min.X, b.Min.Y, b.Min.Z}),
			zap.Float64s("max", []float64{b.Max.X, b.Max.Y, b.Max.Z}),
			zap.Float64s("center", []float64{center.X, center.Y, center.Z}),
			zap.Float64s("size", []float64{size.X, size.Y, size.Z}),
		)
	case errors.Is(err, mesh.ErrLoadInProgress):
		logger.Warn("load already in progress")
	}
	// Load logs its own failures.
	v.window.SetTitle(fmt.Sprintf("%s - %s [%s]", Title, v.cfg.Mesh.Source, v.mesh.State()))
}

func (v *Viewer) resetTransform() {
	v.mesh.Position = vec(v.cfg.Mesh.Position)
	v.mesh.Rotation = degrees(v.cfg.Mesh.Rotation)
}

func (v *Viewer) update(dt float64) {
	if v.spinning {
		v.mesh.Rotation = spin(v.mesh.Rotation, v.spinSpeed, dt)
	}
}

func (v *Viewer) render() error {
	v.renderer.Begin()
	defer v.renderer.End()

	if v.mesh.State() != mesh.StateReady {
		return nil
	}
	return v.mesh.Draw(v.renderer.Program(), v.camera, v.renderer.Aspect())
}

func (v *Viewer) captureScreenshot() {
	width, height := v.renderer.Size()
	path, err := v.screenshot.CaptureFramebuffer(width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) limitFrameRate(frameStart time.Time) {
	if v.cfg.Graphics.FPSLimit <= 0 {
		return
	}
	budget := time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	if elapsed := time.Since(frameStart); elapsed < budget {
		time.Sleep(budget - elapsed)
	}
}
