package field

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Reference field vectors for a charged facet, computed with an
// independent implementation of the Guptasarma formulation.
func TestTriangleReferenceValues(t *testing.T) {
	vertices := [3]vector.Vec3{{X: -1, Y: 0, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: 1, Y: 1, Z: 0}}

	out := make([]vector.Vec3, 1)

	Triangle(B, vertices, vector.Vec3{X: 0.22, Y: 0.33, Z: 0.44}, []vector.Vec3{{X: -0.1, Y: 0.2, Z: 0.1}}, out)
	approxVec(t, vector.Vec3{X: -0.0548087, Y: 0.05350955, Z: 0.17683832}, out[0], 1e-7)

	Triangle(B, vertices, vector.Vec3{X: 0.33, Y: 0.44, Z: 0.55}, []vector.Vec3{{X: 0.1, Y: 0.2, Z: 0.1}}, out)
	approxVec(t, vector.Vec3{X: -0.04252323, Y: 0.05292106, Z: 0.23092368}, out[0], 1e-7)
}

// Only the normal component of the polarization charges a facet; an
// in-plane polarization produces no field.
func TestTriangleInPlanePolarizationIsZero(t *testing.T) {
	vertices := [3]vector.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	out := make([]vector.Vec3, 1)
	Triangle(B, vertices, vector.Vec3{X: 0.7, Y: -0.3}, []vector.Vec3{{X: 0.2, Y: 0.3, Z: 0.4}}, out)
	assert.True(t, out[0].IsZero())
}

// Facet corners are singular; the defined result is the zero vector.
func TestTriangleCornerIsDeterministic(t *testing.T) {
	vertices := [3]vector.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	out := make([]vector.Vec3, 1)
	for i := 0; i < 3; i++ {
		Triangle(B, vertices, vector.Vec3{Z: 1}, []vector.Vec3{vertices[i]}, out)
		assert.True(t, out[0].IsFinite())
	}
}

// cubeMesh is the unit-scale test mesh: a cuboid as 12 outward triangles.
func cubeMesh(dim, pol vector.Vec3) geometry.Polyhedron {
	a, b, c := dim.X/2, dim.Y/2, dim.Z/2
	v := []vector.Vec3{
		{X: -a, Y: -b, Z: -c}, {X: a, Y: -b, Z: -c}, {X: a, Y: b, Z: -c}, {X: -a, Y: b, Z: -c},
		{X: -a, Y: -b, Z: c}, {X: a, Y: -b, Z: c}, {X: a, Y: b, Z: c}, {X: -a, Y: b, Z: c},
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom, -z
		{4, 5, 6}, {4, 6, 7}, // top, +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{2, 3, 7}, {2, 7, 6}, // +y
		{1, 2, 6}, {1, 6, 5}, // +x
		{3, 0, 4}, {3, 4, 7}, // -x
	}
	return geometry.Polyhedron{Vertices: v, Faces: f, Polarization: pol}
}

// A cuboid expressed as a triangle mesh must reproduce the closed-form
// cuboid kernel, inside and outside. Both solutions are exact.
func TestPolyhedronMatchesCuboid(t *testing.T) {
	dim := vector.Vec3{X: 0.2, Y: 0.3, Z: 0.4}
	pol := vector.Vec3{X: 0.3, Y: -0.2, Z: 0.8}
	mesh := cubeMesh(dim, pol)
	box := geometry.Cuboid{Dimension: dim, Polarization: pol}

	points := []vector.Vec3{
		{X: 0.3, Y: 0.2, Z: 0.1},    // outside
		{X: 0, Y: 0, Z: 0.5},        // outside, on axis
		{X: 0.02, Y: -0.05, Z: 0.1}, // inside
		{X: 0, Y: 0, Z: 0},          // center
	}
	for _, kind := range []Kind{B, H} {
		for _, p := range points {
			want := eval(t, kind, box, p)
			got := eval(t, kind, mesh, p)
			approxVec(t, want, got, 1e-9*want.Norm()+1e-12, "%s at %v", kind, p)
		}
	}
}

// The summed solid angle classifies interior points for the
// magnetization term.
func TestPolyhedronInsideDetection(t *testing.T) {
	pol := vector.Vec3{Z: 1}
	mesh := cubeMesh(vector.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, pol)

	inside := vector.Vec3{X: 0.05, Y: -0.03, Z: 0.02}
	b := eval(t, B, mesh, inside)
	h := eval(t, H, mesh, inside)
	approxVec(t, b.Sub(pol).Scale(1/Mu0), h, 1e-3)

	outside := vector.Vec3{X: 0.3, Y: 0, Z: 0}
	bo := eval(t, B, mesh, outside)
	ho := eval(t, H, mesh, outside)
	approxVec(t, bo.Scale(1/Mu0), ho, 1e-3)
}

// The tetrahedron orients its faces from the vertices, so any vertex order
// gives the same field.
func TestTetrahedronOrientationIndependence(t *testing.T) {
	pol := vector.Vec3{X: 0.2, Y: 0.3, Z: 0.9}
	v := [4]vector.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0.1, Y: 0, Z: 0}, {X: 0, Y: 0.1, Z: 0}, {X: 0, Y: 0, Z: 0.1}}

	a := geometry.Tetrahedron{Vertices: v, Polarization: pol}
	b := geometry.Tetrahedron{Vertices: [4]vector.Vec3{v[1], v[0], v[2], v[3]}, Polarization: pol}
	assert.True(t, a.SignedVolume()*b.SignedVolume() < 0)

	for _, p := range []vector.Vec3{{X: 0.2, Y: 0.1, Z: 0.3}, {X: 0.02, Y: 0.02, Z: 0.02}} {
		approxVec(t, eval(t, B, a, p), eval(t, B, b, p), 1e-15, "p=%v", p)
	}
}

// Two tetrahedra tiling a cube octant sum to the field of the octant prism;
// here the full cube is split into six tetrahedra and compared against the
// closed-form cuboid.
func TestTetrahedraTileCuboid(t *testing.T) {
	pol := vector.Vec3{X: 0.5, Z: 1}
	d := 0.1 // half edge
	box := geometry.Cuboid{Dimension: vector.Vec3{X: 2 * d, Y: 2 * d, Z: 2 * d}, Polarization: pol}

	c := [8]vector.Vec3{
		{X: -d, Y: -d, Z: -d}, {X: d, Y: -d, Z: -d}, {X: d, Y: d, Z: -d}, {X: -d, Y: d, Z: -d},
		{X: -d, Y: -d, Z: d}, {X: d, Y: -d, Z: d}, {X: d, Y: d, Z: d}, {X: -d, Y: d, Z: d},
	}
	// standard six-tetrahedra decomposition along the 0-6 diagonal
	tets := [][4]int{
		{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6},
		{0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
	}

	p := vector.Vec3{X: 0.25, Y: 0.15, Z: 0.2}
	want := eval(t, B, box, p)

	var sum vector.Vec3
	for _, idx := range tets {
		tet := geometry.Tetrahedron{
			Vertices:     [4]vector.Vec3{c[idx[0]], c[idx[1]], c[idx[2]], c[idx[3]]},
			Polarization: pol,
		}
		sum = sum.Add(eval(t, B, tet, p))
	}
	approxVec(t, want, sum, 1e-9*want.Norm()+1e-15)
}
