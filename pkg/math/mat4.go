package math

import "math"

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// The zero value is not the identity; start from Identity().
// All methods have value receivers and return a new matrix.
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right-handed perspective projection matrix looking down -Z.
// fovY is in radians, aspect is width/height. Requires 0 < near < far.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovY/2.0)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Translation returns a pure translation matrix.
func Translation(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// AxisRotation builds a rotation of angle radians about axis (Rodrigues' formula).
// The axis need not be normalized. ok is false when the axis has zero length.
func AxisRotation(angle float64, axis Vec3) (m Mat4, ok bool) {
	l := axis.Length()
	if l == 0 {
		return Identity(), false
	}
	x, y, z := axis.X/l, axis.Y/l, axis.Z/l

	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}, true
}

// Mul multiplies this matrix by another (m * other), so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// Translate returns m * Translation(v).
func (m Mat4) Translate(v Vec3) Mat4 {
	return m.Mul(Translation(v))
}

// Rotate returns m * AxisRotation(angle, axis).
// A zero-length axis is a no-op and returns m unchanged.
func (m Mat4) Rotate(angle float64, axis Vec3) Mat4 {
	r, ok := AxisRotation(angle, axis)
	if !ok {
		return m
	}
	return m.Mul(r)
}

// RotateX rotates about the X axis. angle is in radians.
func (m Mat4) RotateX(angle float64) Mat4 {
	return m.Rotate(angle, Vec3{1, 0, 0})
}

// RotateY rotates about the Y axis. angle is in radians.
func (m Mat4) RotateY(angle float64) Mat4 {
	return m.Rotate(angle, Vec3{0, 1, 0})
}

// RotateZ rotates about the Z axis. angle is in radians.
func (m Mat4) RotateZ(angle float64) Mat4 {
	return m.Rotate(angle, Vec3{0, 0, 1})
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// ApproxEqual reports whether every element differs from other by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// Float32 returns the elements as float32 (for OpenGL uniform calls).
func (m Mat4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
