package field

import (
	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Sphere evaluates the field of a homogeneously polarized sphere centered
// at the local origin. Outside the sphere the field is exactly that of a
// point dipole; strictly inside it is the uniform value (2/3)J. Points on
// the surface evaluate through the exterior expression (limit from
// outside).
func Sphere(kind Kind, g geometry.Sphere, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	radius := g.Diameter / 2
	pol := g.Polarization

	for i, p := range points {
		r2 := p.Norm2()
		var bf vector.Vec3

		if r2 < radius*radius {
			// uniform interior field
			bf = pol.Scale(2.0 / 3.0)
			if kind == H {
				// H = B/mu0 - J/mu0 = -J/(3*mu0)
				bf = pol.Scale(-1.0 / (3.0 * Mu0))
			}
			out[i] = bf
			continue
		}

		// exterior: dipole form in terms of the polarization,
		// B = R^3/(3r^3) * (3(J.rh)rh - J)
		r := p.Norm()
		rh := p.Scale(1 / r)
		factor := radius * radius * radius / (3 * r2 * r)
		bf = rh.Scale(3 * pol.Dot(rh)).Sub(pol).Scale(factor)

		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = sanitize(bf)
	}
}
