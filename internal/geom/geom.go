// Package geom provides the small amount of float32 vector and rotation
// math the scene pipeline needs: 3-component vectors and ZYX Euler rotation
// matrices as used for entity poses and camera orientation.
package geom

import "github.com/chewxy/math32"

// Vec3 is a 3-component float32 vector. Depending on context it holds a
// position, a rotation (Euler angles in degrees), a scale, or an RGB color.
type Vec3 [3]float32

// Add returns the componentwise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the componentwise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v with every component multiplied by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// MulEach returns the componentwise (Hadamard) product v * o.
func (v Vec3) MulEach(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Mat3 is a 3x3 row-major rotation matrix.
type Mat3 [9]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// EulerZYX builds the rotation matrix R = Rz(rz) * Ry(ry) * Rx(rx) from
// Euler angles given in degrees. This is the ZYX convention the scene's
// pose attributes use.
func EulerZYX(angles Vec3) Mat3 {
	sx, cx := math32.Sincos(DegToRad(angles[0]))
	sy, cy := math32.Sincos(DegToRad(angles[1]))
	sz, cz := math32.Sincos(DegToRad(angles[2]))

	return Mat3{
		cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx,
		sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx,
		-sy, cy * sx, cy * cx,
	}
}

// MulVec applies the rotation to v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Transposed returns the transpose of m. For rotation matrices this is the
// inverse rotation.
func (m Mat3) Transposed() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}
