package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Cuboid evaluates the field of a homogeneously polarized cuboid magnet
// centered at the local origin with axis-aligned edges. The closed form is
// the magnetic surface-charge solution summed over the eight corners
// (log/atan2 terms, cf. Engel-Herbert & Hesjedal 2005).
//
// Singular points: on edges and corners the corner logarithms diverge; such
// points evaluate to the zero vector. Points on faces are regular.
func Cuboid(kind Kind, g geometry.Cuboid, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	a := g.Dimension.X / 2
	b := g.Dimension.Y / 2
	c := g.Dimension.Z / 2
	pol := g.Polarization

	for i, p := range points {
		var bf vector.Vec3

		if pol.Z != 0 {
			f1, f2, f3 := cuboidAxisField(p.X, p.Y, p.Z, a, b, c)
			bf.X += pol.Z * f1
			bf.Y += pol.Z * f2
			bf.Z += pol.Z * f3
		}
		if pol.X != 0 {
			f1, f2, f3 := cuboidAxisField(p.Y, p.Z, p.X, b, c, a)
			bf.Y += pol.X * f1
			bf.Z += pol.X * f2
			bf.X += pol.X * f3
		}
		if pol.Y != 0 {
			f1, f2, f3 := cuboidAxisField(p.Z, p.X, p.Y, c, a, b)
			bf.Z += pol.Y * f1
			bf.X += pol.Y * f2
			bf.Y += pol.Y * f3
		}

		bf = sanitize(bf)

		if kind == H {
			bf = bf.Scale(1 / Mu0)
			if insideCuboid(p, a, b, c) {
				bf = bf.Sub(pol.Scale(1 / Mu0))
			}
		}
		out[i] = bf
	}
}

// cuboidAxisField returns the B field (per unit polarization) of a cuboid
// with half-edges (a, b, c) polarized along its third axis, evaluated at
// (x, y, z). Components are returned in the same axis order, so callers
// permute coordinates cyclically for the other polarization components.
func cuboidAxisField(x, y, z, a, b, c float64) (f1, f2, f3 float64) {
	xs := [2]float64{x + a, x - a}
	ys := [2]float64{y + b, y - b}
	zs := [2]float64{z + c, z - c}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				// corner parity: (x-a, y-b, z-c) carries +1
				sign := -1.0
				if (i+j+k)%2 == 1 {
					sign = 1.0
				}
				xi, yj, zk := xs[i], ys[j], zs[k]
				r := math.Sqrt(xi*xi + yj*yj + zk*zk)

				f1 -= sign * math.Log(yj+r)
				f2 -= sign * math.Log(xi+r)
				// atan2 folds the interior polarization jump into the
				// normal component, making B valid inside and out
				f3 += sign * math.Atan2(xi*yj, zk*r)
			}
		}
	}

	const inv4pi = 1 / (4 * math.Pi)
	return f1 * inv4pi, f2 * inv4pi, f3 * inv4pi
}

func insideCuboid(p vector.Vec3, a, b, c float64) bool {
	return math.Abs(p.X) < a && math.Abs(p.Y) < b && math.Abs(p.Z) < c
}
