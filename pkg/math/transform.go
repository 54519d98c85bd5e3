package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Compose builds a TRS matrix: translate * rotate * scale.
func Compose(position Vec3, rotation Quat, scale Vec3) Mat4 {
	return Translate(position.X, position.Y, position.Z).
		Mul(rotation.ToMat4()).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// Decompose splits an affine TRS matrix into translation, rotation and scale.
// A negative determinant is folded into the X scale.
func (m Mat4) Decompose() (position Vec3, rotation Quat, scale Vec3) {
	position = m.Translation()

	sx := Vec3{m[0], m[1], m[2]}.Length()
	sy := Vec3{m[4], m[5], m[6]}.Length()
	sz := Vec3{m[8], m[9], m[10]}.Length()
	if m.determinant3() < 0 {
		sx = -sx
	}
	scale = Vec3{sx, sy, sz}

	r := mgl32.Ident4()
	if sx != 0 {
		r[0], r[1], r[2] = m[0]/sx, m[1]/sx, m[2]/sx
	}
	if sy != 0 {
		r[4], r[5], r[6] = m[4]/sy, m[5]/sy, m[6]/sy
	}
	if sz != 0 {
		r[8], r[9], r[10] = m[8]/sz, m[9]/sz, m[10]/sz
	}
	rotation = QuatFromMgl(mgl32.Mat4ToQuat(r)).Normalize()
	return position, rotation, scale
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Mgl returns the matrix as an mgl32.Mat4; both layouts are column-major.
func (m Mat4) Mgl() mgl32.Mat4 {
	return mgl32.Mat4(m)
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// NormalMatrix returns the inverse-transpose used to transform normals.
func (m Mat4) NormalMatrix() Mat4 {
	n := m
	n[12], n[13], n[14] = 0, 0, 0
	return n.Inverse().Transpose()
}

func (m Mat4) determinant3() float32 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

// Mgl converts to an mgl32.Vec3.
func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Vec3FromMgl converts from an mgl32.Vec3.
func Vec3FromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Mgl converts to an mgl32.Quat.
func (q Quat) Mgl() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

// QuatFromMgl converts from an mgl32.Quat.
func QuatFromMgl(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}
