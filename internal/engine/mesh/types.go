// Package mesh turns parsed OBJ documents into GPU buffers and drives their load/draw lifecycle.
package mesh

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshview/pkg/math"
)

// MaxVertices is the most vertices one mesh may emit: every index must fit in a uint16.
const MaxVertices = 1 << 16

// Buffers holds the flattened, triangulated mesh ready for GPU upload.
// Every emitted vertex has a position; Normals and TexCoords are either empty
// or hold one entry per vertex.
type Buffers struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	TexCoords []float32 // uv per vertex
	Indices   []uint16  // three per triangle, 0-based

	Bounds Bounds

	// SkippedTriangles counts triangles dropped under IndexPolicySkip.
	SkippedTriangles int
}

// VertexCount returns the number of emitted vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of emitted triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Validate checks that the attribute arrays line up with the index array.
func (b *Buffers) Validate() error {
	n := len(b.Indices)
	switch {
	case n%3 != 0:
		return fmt.Errorf("index count %d is not a multiple of 3", n)
	case len(b.Positions) != n*3:
		return fmt.Errorf("position floats %d do not match %d vertices", len(b.Positions), n)
	case len(b.Normals) != 0 && len(b.Normals) != n*3:
		return fmt.Errorf("normal floats %d do not match %d vertices", len(b.Normals), n)
	case len(b.TexCoords) != 0 && len(b.TexCoords) != n*2:
		return fmt.Errorf("texcoord floats %d do not match %d vertices", len(b.TexCoords), n)
	}
	return nil
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b *Bounds) extend(p math.Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// IndexPolicy selects what happens when a face references a missing vertex.
type IndexPolicy int

const (
	IndexPolicyFail IndexPolicy = iota // Abort the conversion
	IndexPolicySkip                    // Drop the whole triangle
)

// String returns the config name of the policy.
func (p IndexPolicy) String() string {
	switch p {
	case IndexPolicyFail:
		return "fail"
	case IndexPolicySkip:
		return "skip"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseIndexPolicy converts a config value ("fail" or "skip") to an IndexPolicy.
// An empty string selects IndexPolicyFail.
func ParseIndexPolicy(s string) (IndexPolicy, error) {
	switch strings.ToLower(s) {
	case "", "fail":
		return IndexPolicyFail, nil
	case "skip":
		return IndexPolicySkip, nil
	default:
		return IndexPolicyFail, fmt.Errorf("unknown index policy %q", s)
	}
}

// ConvertOptions contains options for buffer conversion.
type ConvertOptions struct {
	// IndexPolicy decides how out-of-range face indices are handled.
	IndexPolicy IndexPolicy
	// MaxVertices caps emitted vertices; 0 or anything above MaxVertices means MaxVertices.
	MaxVertices int
}

func (o ConvertOptions) vertexLimit() int {
	if o.MaxVertices <= 0 || o.MaxVertices > MaxVertices {
		return MaxVertices
	}
	return o.MaxVertices
}
