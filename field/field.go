// Package field implements the closed-form magnetostatic field kernels.
//
// Every kernel evaluates one geometry in its canonical local frame (see
// package geometry) at a batch of local observer points, point-wise
// independent. Uniform contracts across all kernels:
//
//   - Singular observer points (on an edge, axis, corner or on the source
//     itself) produce a deterministic finite value, never NaN or Inf. The
//     per-geometry conventions are documented on each kernel.
//   - Degenerate geometry (zero size, current or moment) produces a zero
//     field everywhere.
//   - For magnets, B and H differ inside the material by the magnetization:
//     H = B/mu0 - J/mu0, decided per point with an exact inside test.
package field

import (
	"errors"
	"fmt"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Mu0 is the vacuum permeability in T*m/A.
const Mu0 = 1.25663706212e-6

// Kind selects the returned field quantity.
type Kind int

const (
	// B is the magnetic flux density in Tesla.
	B Kind = iota + 1
	// H is the magnetic field strength in A/m.
	H
)

// ErrUnsupportedKind reports a field selector outside {B, H}.
var ErrUnsupportedKind = errors.New("unsupported field kind")

// Validate checks the selector.
func (k Kind) Validate() error {
	if k != B && k != H {
		return fmt.Errorf("%w: %d", ErrUnsupportedKind, k)
	}
	return nil
}

// String returns "B" or "H".
func (k Kind) String() string {
	switch k {
	case B:
		return "B"
	case H:
		return "H"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Evaluate dispatches to the kernel for the geometry variant, writing the
// local-frame field at each local-frame point into out. len(out) must equal
// len(points). The geometry is assumed validated; Evaluate only rejects an
// invalid kind or an unknown variant.
func Evaluate(kind Kind, g geometry.Geometry, points, out []vector.Vec3) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if len(out) != len(points) {
		return fmt.Errorf("field: out length %d does not match points length %d", len(out), len(points))
	}

	switch s := g.(type) {
	case geometry.Cuboid:
		Cuboid(kind, s, points, out)
	case geometry.Cylinder:
		Cylinder(kind, s, points, out)
	case geometry.CylinderSegment:
		CylinderSegment(kind, s, points, out)
	case geometry.Sphere:
		Sphere(kind, s, points, out)
	case geometry.Polyhedron:
		Polyhedron(kind, s, points, out)
	case geometry.Tetrahedron:
		// the derived mesh is not degenerate when the volume is zero, so
		// the flat case is decided here
		if s.Degenerate() {
			zeroOut(out)
		} else {
			Polyhedron(kind, s.Mesh(), points, out)
		}
	case geometry.Dipole:
		Dipole(kind, s, points, out)
	case geometry.Circle:
		Circle(kind, s, points, out)
	case geometry.Polyline:
		Polyline(kind, s, points, out)
	case geometry.Line:
		Line(kind, s, points, out)
	default:
		return fmt.Errorf("field: no kernel for geometry %T", g)
	}
	return nil
}

// zeroOut clears the output slice, the defined result for degenerate
// geometry.
func zeroOut(out []vector.Vec3) {
	for i := range out {
		out[i] = vector.Vec3{}
	}
}

// sanitize replaces a non-finite kernel result by the zero vector. The
// closed-form expressions have measure-zero singularities (edges, corners,
// axes); the fallback value there is zero, deterministically.
func sanitize(v vector.Vec3) vector.Vec3 {
	if !v.IsFinite() {
		return vector.Vec3{}
	}
	return v
}
