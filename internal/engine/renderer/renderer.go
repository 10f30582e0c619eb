// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/shader/shaders"
	"github.com/Faultbox/meshview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the GL state, the mesh shader program and the graphics context.
type Renderer struct {
	config Config

	program *shader.Program
	gfx     *gpu.GL
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = buildProgram()
	if err != nil {
		return nil, err
	}

	r.gfx = gpu.New()

	return r, nil
}

// compileProgram is swapped out by tests that run without a GL context.
var compileProgram = shader.CompileProgram

func buildProgram() (*shader.Program, error) {
	program, err := compileProgram(shaders.BasicVertexShader, shaders.BasicFragmentShader)
	if err != nil {
		logger.Error("shader program failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	logger.Debug("shader program created", zap.Uint32("program", program.ID))
	return program, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.gfx != nil {
		r.gfx.Close()
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Program returns the mesh shader program.
func (r *Renderer) Program() *shader.Program {
	return r.program
}

// Graphics returns the graphics context meshes upload to.
func (r *Renderer) Graphics() *gpu.GL {
	return r.gfx
}

// Size returns the current viewport size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the viewport width divided by its height.
func (r *Renderer) Aspect() float64 {
	return Aspect(r.config.Width, r.config.Height)
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func Aspect(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.Flush()
}
