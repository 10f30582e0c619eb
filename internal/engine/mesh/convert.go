package mesh

import (
	"fmt"

	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// vertex is one resolved face corner.
type vertex struct {
	position  math.Vec3
	normal    math.Vec3
	texCoord  math.Vec2
	hasNormal bool
	hasUV     bool
}

// Convert triangulates every face of obj and flattens it into GPU buffers.
//
// Faces are split as triangle fans (v0, vi, vi+1), which is only correct for
// convex planar polygons. Each triangle is resolved completely before anything
// is appended, so a bad index never leaves the arrays misaligned. Vertices are
// not shared between triangles.
func Convert(obj *formats.OBJ, opts ConvertOptions) (*Buffers, error) {
	limit := opts.vertexLimit()

	var verts []vertex
	skipped := 0
	anyNormal, anyUV := false, false

	for gi := range obj.Groups {
		g := &obj.Groups[gi]

		for fi, face := range g.Faces {
			if len(face.Vertices) < 3 {
				return nil, fmt.Errorf("group %q face %d: %w", g.Name, fi+1, ErrInvalidFace)
			}

			for i := 1; i+1 < len(face.Vertices); i++ {
				tri, err := resolveTriangle(g, face.Vertices[0], face.Vertices[i], face.Vertices[i+1])
				if err != nil {
					if opts.IndexPolicy == IndexPolicySkip {
						skipped++
						continue
					}
					return nil, fmt.Errorf("group %q face %d: %w", g.Name, fi+1, err)
				}

				if len(verts)+3 > limit {
					return nil, fmt.Errorf("%w: more than %d vertices", ErrBufferSizeExceeded, limit)
				}

				for _, v := range tri {
					anyNormal = anyNormal || v.hasNormal
					anyUV = anyUV || v.hasUV
				}
				verts = append(verts, tri[:]...)
			}
		}
	}

	b := flatten(verts, anyNormal, anyUV)
	b.SkippedTriangles = skipped
	return b, nil
}

// resolveTriangle looks up all three corners; any missing reference fails the triangle.
func resolveTriangle(g *formats.OBJGroup, refs ...formats.IndexTriple) ([3]vertex, error) {
	var tri [3]vertex
	for i, ref := range refs {
		v, err := resolveVertex(g, ref)
		if err != nil {
			return tri, err
		}
		tri[i] = v
	}
	return tri, nil
}

func resolveVertex(g *formats.OBJGroup, ref formats.IndexTriple) (vertex, error) {
	var v vertex

	p := ref.Position - 1
	if p < 0 || p >= len(g.Positions) {
		return v, fmt.Errorf("%w: position %d of %d", ErrIndexOutOfRange, ref.Position, len(g.Positions))
	}
	v.position = g.Positions[p]

	if ref.HasTexCoord() {
		t := ref.TexCoord - 1
		if t < 0 || t >= len(g.TexCoords) {
			return v, fmt.Errorf("%w: texcoord %d of %d", ErrIndexOutOfRange, ref.TexCoord, len(g.TexCoords))
		}
		v.texCoord = g.TexCoords[t]
		v.hasUV = true
	}

	if ref.HasNormal() {
		n := ref.Normal - 1
		if n < 0 || n >= len(g.Normals) {
			return v, fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, ref.Normal, len(g.Normals))
		}
		v.normal = g.Normals[n]
		v.hasNormal = true
	}

	return v, nil
}

// flatten writes verts into typed arrays. A normal or texcoord array is emitted
// for every vertex (zero where absent) when any vertex has one, otherwise it is left empty.
func flatten(verts []vertex, withNormals, withUVs bool) *Buffers {
	b := &Buffers{
		Positions: make([]float32, 0, len(verts)*3),
		Indices:   make([]uint16, 0, len(verts)),
	}
	if withNormals {
		b.Normals = make([]float32, 0, len(verts)*3)
	}
	if withUVs {
		b.TexCoords = make([]float32, 0, len(verts)*2)
	}

	for i, v := range verts {
		if i == 0 {
			b.Bounds = Bounds{Min: v.position, Max: v.position}
		} else {
			b.Bounds.extend(v.position)
		}

		p := v.position.Float32()
		b.Positions = append(b.Positions, p[0], p[1], p[2])
		if withNormals {
			n := v.normal.Float32()
			b.Normals = append(b.Normals, n[0], n[1], n[2])
		}
		if withUVs {
			uv := v.texCoord.Float32()
			b.TexCoords = append(b.TexCoords, uv[0], uv[1])
		}
		b.Indices = append(b.Indices, uint16(i))
	}

	return b
}
