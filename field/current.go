package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Circle evaluates the field of a circular current loop in the local
// xy-plane via the classic complete-elliptic-integral closed form.
// Positive current circulates counterclockwise seen from +z, giving a
// field along +z at the center. Points exactly on the loop evaluate to the
// zero vector; H = B/mu0 everywhere (no magnetized volume).
func Circle(kind Kind, g geometry.Circle, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	radius := g.Diameter / 2
	const inv2pi = 1 / (2 * math.Pi)

	for i, p := range points {
		rho := math.Hypot(p.X, p.Y)
		z := p.Z

		var bRho, bZ float64
		if rho < 1e-4*radius {
			// close to the axis the elliptic expressions cancel
			// destructively; use the on-axis solution plus its first-order
			// radial expansion
			s := radius*radius + z*z
			sq := math.Sqrt(s)
			bZ = Mu0 * g.Current * radius * radius / (2 * s * sq)
			bRho = 3 * Mu0 * g.Current * radius * radius * z * rho / (4 * s * s * sq)
		} else {
			sum := radius + rho
			dif := radius - rho
			den2 := sum*sum + z*z
			den := math.Sqrt(den2)
			m := 4 * radius * rho / den2
			dd := dif*dif + z*z

			k := ellipK(m)
			e := ellipE(m)
			bZ = Mu0 * g.Current * inv2pi / den *
				(k + (radius*radius-rho*rho-z*z)/dd*e)
			bRho = Mu0 * g.Current * inv2pi * z / (rho * den) *
				(-k + (radius*radius+rho*rho+z*z)/dd*e)
		}

		var bf vector.Vec3
		if rho == 0 {
			bf = vector.Vec3{Z: bZ}
		} else {
			cos, sin := p.X/rho, p.Y/rho
			bf = vector.Vec3{X: bRho * cos, Y: bRho * sin, Z: bZ}
		}
		bf = sanitize(bf)
		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = bf
	}
}

// Polyline evaluates the Biot-Savart field of straight current segments
// chained along the vertex list. Observer points exactly on a segment's
// carrying line contribute zero from that segment.
func Polyline(kind Kind, g geometry.Polyline, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	const factor = Mu0 / (4 * math.Pi)

	for i, p := range points {
		var bf vector.Vec3
		for s := 0; s+1 < len(g.Vertices); s++ {
			bf = bf.Add(segmentB(g.Vertices[s], g.Vertices[s+1], p))
		}
		bf = sanitize(bf.Scale(factor * g.Current))
		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = bf
	}
}

// segmentB returns 4*pi/(mu0*I) times the field of one finite segment.
func segmentB(p1, p2, obs vector.Vec3) vector.Vec3 {
	u := p2.Sub(p1)
	a := obs.Sub(p1)
	b := obs.Sub(p2)
	c := u.Cross(a)
	c2 := c.Norm2()
	if c2 == 0 {
		// on the carrying line (or zero-length segment): defined as zero
		return vector.Vec3{}
	}
	an := a.Norm()
	bn := b.Norm()
	if an == 0 || bn == 0 {
		return vector.Vec3{}
	}
	scale := u.Dot(a.Scale(1/an).Sub(b.Scale(1/bn))) / c2
	return c.Scale(scale)
}

// Line evaluates the field of an infinite straight current: magnitude
// mu0*I/(2*pi*d) at perpendicular distance d, direction circumferential
// (right-hand rule). Points on the line evaluate to the zero vector.
func Line(kind Kind, g geometry.Line, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	dir := g.Direction.Normalized()
	const inv2pi = 1 / (2 * math.Pi)

	for i, p := range points {
		rel := p.Sub(g.Point)
		perp := rel.Sub(dir.Scale(rel.Dot(dir)))
		d2 := perp.Norm2()
		if d2 == 0 {
			out[i] = vector.Vec3{}
			continue
		}
		bf := dir.Cross(perp).Scale(Mu0 * g.Current * inv2pi / d2)
		if kind == H {
			bf = bf.Scale(1 / Mu0)
		}
		out[i] = sanitize(bf)
	}
}
