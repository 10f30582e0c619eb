package mesh

import "context"

// Graphics is the slice of the GPU context a mesh needs.
// Implementations must be called from the thread that owns the context.
type Graphics interface {
	// CreateArrayBuffer uploads vertex attribute data and returns its handle.
	CreateArrayBuffer(data []float32) (uint32, error)
	// CreateElementBuffer uploads triangle indices and returns its handle.
	CreateElementBuffer(data []uint16) (uint32, error)
	// DeleteBuffer releases a handle returned by one of the Create calls.
	DeleteBuffer(id uint32)
	// BindAttribute feeds buffer to the attribute at loc, size floats per vertex.
	BindAttribute(loc int32, buffer uint32, size int32)
	// DisableAttribute turns off the attribute array at loc.
	DisableAttribute(loc int32)
	// UniformMatrix4 sets a column-major matrix uniform.
	UniformMatrix4(loc int32, m [16]float32)
	// DrawTriangles issues one indexed triangle draw over count uint16 indices.
	DrawTriangles(elements uint32, count int32)
}

// Program is a linked shader program. Lookups of names the program does not
// use return a negative location.
type Program interface {
	Use()
	AttribLocation(name string) int32
	UniformLocation(name string) int32
}

// Fetcher retrieves mesh source text.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch calls f(ctx, path).
func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// Shader attribute and uniform names.
const (
	AttribPosition    = "position"
	AttribNormal      = "normal"
	AttribTexCoord    = "uv"
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
)
