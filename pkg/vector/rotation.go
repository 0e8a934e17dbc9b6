package vector

import "math"

// Rotation represents a 3D rotation as a unit quaternion (W + Xi + Yj + Zk).
// The zero value is not a valid rotation; use Identity.
type Rotation struct{ W, X, Y, Z float64 }

// Identity returns the identity rotation.
func Identity() Rotation { return Rotation{W: 1} }

// AxisAngle creates a rotation of angle radians around the given axis.
// A zero axis yields the identity rotation.
func AxisAngle(axis Vec3, angle float64) Rotation {
	n := axis.Norm()
	if n == 0 {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return Rotation{
		W: math.Cos(angle / 2),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// EulerXYZ creates a rotation from intrinsic x-y-z Euler angles in radians.
func EulerXYZ(rx, ry, rz float64) Rotation {
	qx := AxisAngle(Vec3{X: 1}, rx)
	qy := AxisAngle(Vec3{Y: 1}, ry)
	qz := AxisAngle(Vec3{Z: 1}, rz)
	return qx.Compose(qy).Compose(qz)
}

// FromMatrix creates a rotation from a 3x3 rotation matrix in row-major
// order. The matrix must be orthonormal with determinant +1. The branch on
// the largest diagonal term keeps the extraction stable near 180 degree
// rotations, where the trace approaches -1.
func FromMatrix(m [3][3]float64) Rotation {
	trace := m[0][0] + m[1][1] + m[2][2]
	var q Rotation
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = Rotation{
			W: s / 4,
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1 + m[0][0] - m[1][1] - m[2][2])
		q = Rotation{
			W: (m[2][1] - m[1][2]) / s,
			X: s / 4,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1 + m[1][1] - m[0][0] - m[2][2])
		q = Rotation{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: s / 4,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1 + m[2][2] - m[0][0] - m[1][1])
		q = Rotation{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: s / 4,
		}
	}
	return q.normalized()
}

// Compose returns the rotation equivalent to applying r first, then o.
// The result is renormalized so long compositions do not drift.
func (r Rotation) Compose(o Rotation) Rotation {
	q := Rotation{
		W: o.W*r.W - o.X*r.X - o.Y*r.Y - o.Z*r.Z,
		X: o.W*r.X + o.X*r.W + o.Y*r.Z - o.Z*r.Y,
		Y: o.W*r.Y - o.X*r.Z + o.Y*r.W + o.Z*r.X,
		Z: o.W*r.Z + o.X*r.Y - o.Y*r.X + o.Z*r.W,
	}
	return q.normalized()
}

// Inverse returns the inverse rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation{W: r.W, X: -r.X, Y: -r.Y, Z: -r.Z}
}

// IsIdentity reports whether r is exactly the identity rotation.
func (r Rotation) IsIdentity() bool {
	return r.X == 0 && r.Y == 0 && r.Z == 0 && (r.W == 1 || r.W == -1)
}

// Apply rotates the vector v by r.
func (r Rotation) Apply(v Vec3) Vec3 {
	if r.IsIdentity() {
		return v
	}
	// v' = v + 2*q x (q x v + w*v) with q = (X,Y,Z)
	q := Vec3{r.X, r.Y, r.Z}
	t := q.Cross(v).Scale(2)
	return v.Add(t.Scale(r.W)).Add(q.Cross(t))
}

// ApplyInverse rotates the vector v by the inverse of r.
func (r Rotation) ApplyInverse(v Vec3) Vec3 {
	return r.Inverse().Apply(v)
}

// Matrix returns the 3x3 rotation matrix of r in row-major order.
func (r Rotation) Matrix() [3][3]float64 {
	w, x, y, z := r.W, r.X, r.Y, r.Z
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

func (r Rotation) normalized() Rotation {
	n := math.Sqrt(r.W*r.W + r.X*r.X + r.Y*r.Y + r.Z*r.Z)
	if n == 0 {
		return Identity()
	}
	return Rotation{W: r.W / n, X: r.X / n, Y: r.Y / n, Z: r.Z / n}
}
