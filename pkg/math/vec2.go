// Package math provides the vector and matrix types used by the mesh pipeline.
package math

// Vec2 is a texture coordinate pair.
type Vec2 struct {
	U, V float64
}

// Float32 returns the components as float32 for GPU upload.
func (v Vec2) Float32() [2]float32 {
	return [2]float32{float32(v.U), float32(v.V)}
}
