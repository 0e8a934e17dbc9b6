package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Dipole evaluates the field of an ideal point dipole at the local origin.
// The observer at the dipole position itself evaluates to zero (the
// expression has a non-removable pole there).
func Dipole(kind Kind, g geometry.Dipole, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	m := g.Moment
	const factor = Mu0 / (4 * math.Pi)

	for i, p := range points {
		r2 := p.Norm2()
		if r2 == 0 {
			out[i] = vector.Vec3{}
			continue
		}
		r := math.Sqrt(r2)
		rh := p.Scale(1 / r)
		bf := rh.Scale(3 * m.Dot(rh)).Sub(m).Scale(factor / (r2 * r))
		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = sanitize(bf)
	}
}
