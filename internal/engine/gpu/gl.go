// Package gpu implements the mesh graphics capability on OpenGL 4.1 core.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// ErrGL is wrapped by every error reported by the GL driver.
var ErrGL = errors.New("gl error")

// GL issues buffer, attribute and draw calls against the current context.
// A single vertex array object stays bound for its whole lifetime.
// Must be created and used on the thread that owns the GL context.
type GL struct {
	vao uint32
}

// New creates the vertex array object and binds it.
// IMPORTANT: Must be called AFTER gl.Init.
func New() *GL {
	g := &GL{}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	logger.Debug("gpu vertex array created", zap.Uint32("vao", g.vao))
	return g
}

// Close deletes the vertex array object.
func (g *GL) Close() {
	if g.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
}

// CreateArrayBuffer uploads float data to a new ARRAY_BUFFER.
func (g *GL) CreateArrayBuffer(data []float32) (uint32, error) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	return createBuffer(gl.ARRAY_BUFFER, len(data)*4, ptr)
}

// CreateElementBuffer uploads 16-bit indices to a new ELEMENT_ARRAY_BUFFER.
func (g *GL) CreateElementBuffer(data []uint16) (uint32, error) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	return createBuffer(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, ptr)
}

func createBuffer(target uint32, size int, ptr unsafe.Pointer) (uint32, error) {
	// Drop stale errors so the check below only sees this upload.
	drainErrors()

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	gl.BufferData(target, size, ptr, gl.STATIC_DRAW)

	if err := checkError(); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("buffer data (%d bytes): %w", size, err)
	}
	return id, nil
}

// DeleteBuffer frees a buffer created by this GL.
func (g *GL) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

// BindAttribute points the attribute at location loc to a tightly packed float buffer.
func (g *GL) BindAttribute(loc int32, buffer uint32, size int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.VertexAttribPointerWithOffset(uint32(loc), size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(loc))
}

// DisableAttribute turns off the attribute array at location loc.
func (g *GL) DisableAttribute(loc int32) {
	gl.DisableVertexAttribArray(uint32(loc))
}

// UniformMatrix4 uploads a column-major 4x4 matrix.
func (g *GL) UniformMatrix4(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// DrawTriangles draws count indices from the element buffer as a triangle list.
func (g *GL) DrawTriangles(elements uint32, count int32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, elements)
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, 0)
}

func drainErrors() {
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

func checkError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%w: %s", ErrGL, errorName(code))
	}
	return nil
}

// errorName maps a glGetError code to its constant name.
func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("0x%04X", code)
	}
}
