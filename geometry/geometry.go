// Package geometry defines the source geometry descriptors and their
// validation rules. Descriptors are immutable value types carrying shape
// parameters in the source's local frame (canonical axis-aligned pose)
// together with the magnetic excitation (polarization vector in Tesla, a
// current in Ampere, or a dipole moment in A*m^2).
//
// Zero-size and zero-excitation descriptors are valid inputs whose field is
// zero everywhere; validation rejects only negative, non-finite or
// structurally malformed parameters.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/magsolve/magsolve/pkg/vector"
)

// Geometry validation errors.
var (
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// Kind identifies a geometry variant. The set is closed: adding a geometry
// means adding a variant and a kernel, never touching the broadcaster.
type Kind int

const (
	KindCuboid Kind = iota + 1
	KindCylinder
	KindCylinderSegment
	KindSphere
	KindPolyhedron
	KindTetrahedron
	KindDipole
	KindCircle
	KindPolyline
	KindLine
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindCuboid:
		return "cuboid"
	case KindCylinder:
		return "cylinder"
	case KindCylinderSegment:
		return "cylinder_segment"
	case KindSphere:
		return "sphere"
	case KindPolyhedron:
		return "polyhedron"
	case KindTetrahedron:
		return "tetrahedron"
	case KindDipole:
		return "dipole"
	case KindCircle:
		return "circle"
	case KindPolyline:
		return "polyline"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Geometry is the closed set of source descriptors.
type Geometry interface {
	Kind() Kind
	// Validate checks value ranges and structure. It accepts degenerate
	// (zero-size, zero-excitation) descriptors.
	Validate() error
}

func invalidf(kind Kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidGeometry, kind, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkFiniteVec(kind Kind, name string, v vector.Vec3) error {
	if !v.IsFinite() {
		return invalidf(kind, "%s must be finite, got (%g, %g, %g)", name, v.X, v.Y, v.Z)
	}
	return nil
}

func checkDimension(kind Kind, name string, v float64) error {
	if !finite(v) || v < 0 {
		return invalidf(kind, "%s must be finite and non-negative, got %g", name, v)
	}
	return nil
}
