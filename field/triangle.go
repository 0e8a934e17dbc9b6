package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// triangleB computes 4*pi times the B field of a homogeneously charged
// triangular surface at the observer point p, per the Guptasarma (1999)
// formulation. vertices wind counterclockwise around the outward normal;
// sigma is the surface charge, the projection of the polarization onto the
// unit normal.
//
// Corners produce NaN and edges evaluate to zero; callers sanitize.
func triangleB(v [3]vector.Vec3, sigma float64, p vector.Vec3) vector.Vec3 {
	n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Normalized()

	// vertex <-> observer
	var rv [3]vector.Vec3
	var rn [3]float64
	for i := 0; i < 3; i++ {
		rv[i] = v[i].Sub(p)
		rn[i] = rv[i].Norm()
	}

	// per-edge line integrals
	var pqr vector.Vec3
	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		edge := v[j].Sub(v[i])
		l2 := edge.Norm2()
		l := math.Sqrt(l2)
		if l == 0 {
			continue
		}
		b := rv[i].Dot(edge)
		bl := b / l
		r := rn[i]
		r2 := r * r

		// closeness measure to the corner/edge extension; below the
		// threshold the regular expression degenerates and the limiting
		// form applies
		var integ float64
		if ind := math.Abs(r + bl); ind > 1e-12 {
			integ = math.Log((math.Sqrt(l2+2*b+r2)+l+bl)/ind) / l
		} else {
			integ = -math.Log(math.Abs(l-r)/r) / l
		}
		pqr = pqr.Add(edge.Scale(integ))
	}

	sa := solidAngle(rv, rn)
	return n.Scale(sa).Sub(n.Cross(pqr)).Scale(sigma)
}

// solidAngle returns the oriented solid angle of the triangle spanned by
// the observer-to-vertex vectors rv with norms rn (Van Oosterom-Strackee).
// Values folding beyond 2*pi (observer in the triangle plane on an edge)
// collapse to zero, mirroring the original convention.
func solidAngle(rv [3]vector.Vec3, rn [3]float64) float64 {
	num := rv[2].Dot(rv[1].Cross(rv[0]))
	den := rn[0]*rn[1]*rn[2] +
		rv[2].Dot(rv[1])*rn[0] +
		rv[2].Dot(rv[0])*rn[1] +
		rv[1].Dot(rv[0])*rn[2]
	result := 2 * math.Atan2(num, den)
	if math.Abs(result) > 6.2831853 {
		return 0
	}
	return result
}

// Polyhedron evaluates the field of a homogeneously polarized magnet
// bounded by a closed triangular mesh, summing the facet fields. The mesh
// must wind outward; inconsistent winding silently flips contribution
// signs. Inside/outside (for the B/H magnetization term) is decided by the
// summed solid angle of all facets, which is 4*pi (up to sign) for interior
// points and 0 outside.
//
// Singular points: facet corners and edges evaluate to the zero vector.
func Polyhedron(kind Kind, g geometry.Polyhedron, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	pol := g.Polarization
	const inv4pi = 1 / (4 * math.Pi)

	for i, p := range points {
		var sum vector.Vec3
		var omega float64

		for _, f := range g.Faces {
			v := [3]vector.Vec3{g.Vertices[f[0]], g.Vertices[f[1]], g.Vertices[f[2]]}
			n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
			if n.IsZero() {
				// collapsed facet carries no charge
				continue
			}
			sigma := n.Normalized().Dot(pol)
			sum = sum.Add(triangleB(v, sigma, p))

			var rv [3]vector.Vec3
			var rn [3]float64
			for k := 0; k < 3; k++ {
				rv[k] = v[k].Sub(p)
				rn[k] = rv[k].Norm()
			}
			omega += solidAngle(rv, rn)
		}

		bf := sanitize(sum.Scale(inv4pi))
		inside := math.Abs(omega) > 2*math.Pi

		if inside {
			bf = bf.Add(pol)
		}
		if kind == H {
			bf = bf.Scale(1 / Mu0)
			if inside {
				bf = bf.Sub(pol.Scale(1 / Mu0))
			}
		}
		out[i] = bf
	}
}

// Triangle evaluates the field of a single charged triangular facet with
// the given polarization. Unlike Polyhedron there is no interior, so B and
// H are proportional everywhere.
func Triangle(kind Kind, vertices [3]vector.Vec3, pol vector.Vec3, points, out []vector.Vec3) {
	n := vertices[1].Sub(vertices[0]).Cross(vertices[2].Sub(vertices[0]))
	if n.IsZero() || pol.IsZero() {
		zeroOut(out)
		return
	}
	sigma := n.Normalized().Dot(pol)
	const inv4pi = 1 / (4 * math.Pi)

	for i, p := range points {
		bf := sanitize(triangleB(vertices, sigma, p).Scale(inv4pi))
		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = bf
	}
}
