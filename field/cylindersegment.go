package field

import (
	"math"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// segmentSectorsPerTurn controls the angular resolution of the curved-face
// tessellation: number of sectors covering a full turn.
const segmentSectorsPerTurn = 72

// CylinderSegment evaluates the field of an annular cylinder section. The
// planar faces (side walls, top/bottom sectors) are exact charged facets;
// the curved inner/outer faces are tessellated into facets at
// segmentSectorsPerTurn sectors per full turn, the same surface-mesh
// strategy used for general solids. The inside/outside decision for the
// B/H split is exact (cylindrical coordinates), not mesh-based.
func CylinderSegment(kind Kind, g geometry.CylinderSegment, points, out []vector.Vec3) {
	if g.Degenerate() {
		zeroOut(out)
		return
	}

	r1 := g.InnerDiameter / 2
	r2 := g.OuterDiameter / 2
	halfH := g.Height / 2
	phi1 := g.Phi1 * math.Pi / 180
	phi2 := g.Phi2 * math.Pi / 180
	span := phi2 - phi1
	fullTurn := math.Abs(span-2*math.Pi) < 1e-12
	pol := g.Polarization

	mesh := segmentMesh(r1, r2, halfH, phi1, span, fullTurn)
	const inv4pi = 1 / (4 * math.Pi)

	for i, p := range points {
		var sum vector.Vec3
		for _, tri := range mesh {
			n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
			if n.IsZero() {
				continue
			}
			sigma := n.Normalized().Dot(pol)
			if sigma == 0 {
				continue
			}
			sum = sum.Add(triangleB(tri, sigma, p))
		}

		bf := sanitize(sum.Scale(inv4pi))
		inside := insideSegment(p, r1, r2, halfH, phi1, span, fullTurn)
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

func insideSegment(p vector.Vec3, r1, r2, halfH, phi1, span float64, fullTurn bool) bool {
	rho := math.Hypot(p.X, p.Y)
	if (r1 > 0 && rho <= r1) || rho >= r2 || math.Abs(p.Z) >= halfH {
		return false
	}
	if fullTurn {
		return true
	}
	delta := math.Mod(math.Atan2(p.Y, p.X)-phi1, 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	return delta > 0 && delta < span
}

// segmentMesh builds the outward-oriented triangle mesh of the section
// boundary.
func segmentMesh(r1, r2, halfH, phi1, span float64, fullTurn bool) [][3]vector.Vec3 {
	sectors := int(math.Ceil(math.Abs(span) / (2 * math.Pi / segmentSectorsPerTurn)))
	if sectors < 1 {
		sectors = 1
	}

	at := func(r, phi, z float64) vector.Vec3 {
		sin, cos := math.Sincos(phi)
		return vector.Vec3{X: r * cos, Y: r * sin, Z: z}
	}

	var mesh [][3]vector.Vec3
	quad := func(a, b, c, d vector.Vec3) {
		mesh = append(mesh, [3]vector.Vec3{a, b, c}, [3]vector.Vec3{a, c, d})
	}

	for s := 0; s < sectors; s++ {
		pa := phi1 + span*float64(s)/float64(sectors)
		pb := phi1 + span*float64(s+1)/float64(sectors)

		// outer curved face, normal ~ +rho
		quad(at(r2, pa, -halfH), at(r2, pb, -halfH), at(r2, pb, halfH), at(r2, pa, halfH))
		if r1 > 0 {
			// inner curved face, normal ~ -rho
			quad(at(r1, pa, -halfH), at(r1, pa, halfH), at(r1, pb, halfH), at(r1, pb, -halfH))
		}
		// top sector, normal +z; collapses to single triangles for r1 = 0
		quad(at(r1, pa, halfH), at(r2, pa, halfH), at(r2, pb, halfH), at(r1, pb, halfH))
		// bottom sector, normal -z
		quad(at(r1, pa, -halfH), at(r1, pb, -halfH), at(r2, pb, -halfH), at(r2, pa, -halfH))
	}

	if !fullTurn {
		// flat side walls; outward normal is -phi at phi1 and +phi at phi2
		phiEnd := phi1 + span
		quad(at(r1, phi1, -halfH), at(r2, phi1, -halfH), at(r2, phi1, halfH), at(r1, phi1, halfH))
		quad(at(r1, phiEnd, -halfH), at(r1, phiEnd, halfH), at(r2, phiEnd, halfH), at(r2, phiEnd, -halfH))
	}

	return mesh
}
