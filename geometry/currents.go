package geometry

import (
	"github.com/magsolve/magsolve/pkg/vector"
)

// Dipole is an ideal magnetic point dipole at the local origin with moment
// in A*m^2.
type Dipole struct {
	Moment vector.Vec3
}

func (Dipole) Kind() Kind { return KindDipole }

func (d Dipole) Validate() error {
	return checkFiniteVec(KindDipole, "moment", d.Moment)
}

func (d Dipole) Degenerate() bool { return d.Moment.IsZero() }

// Circle is a circular current loop in the local xy-plane, centered at the
// origin. Positive current flows counterclockwise seen from +z.
type Circle struct {
	Diameter float64
	Current  float64
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) Validate() error {
	if err := checkDimension(KindCircle, "diameter", c.Diameter); err != nil {
		return err
	}
	if !finite(c.Current) {
		return invalidf(KindCircle, "current must be finite, got %g", c.Current)
	}
	return nil
}

func (c Circle) Degenerate() bool { return c.Diameter == 0 || c.Current == 0 }

// Polyline is a current path along straight segments between consecutive
// vertices. The current flows from the first vertex toward the last.
type Polyline struct {
	Vertices []vector.Vec3
	Current  float64
}

func (Polyline) Kind() Kind { return KindPolyline }

func (p Polyline) Validate() error {
	if len(p.Vertices) < 2 {
		return invalidf(KindPolyline, "need at least 2 vertices, got %d", len(p.Vertices))
	}
	for i, v := range p.Vertices {
		if !v.IsFinite() {
			return invalidf(KindPolyline, "vertex %d must be finite", i)
		}
	}
	if !finite(p.Current) {
		return invalidf(KindPolyline, "current must be finite, got %g", p.Current)
	}
	return nil
}

func (p Polyline) Degenerate() bool { return p.Current == 0 }

// Line is an infinite straight current through Point along Direction.
type Line struct {
	Point     vector.Vec3
	Direction vector.Vec3
	Current   float64
}

func (Line) Kind() Kind { return KindLine }

func (l Line) Validate() error {
	if err := checkFiniteVec(KindLine, "point", l.Point); err != nil {
		return err
	}
	if err := checkFiniteVec(KindLine, "direction", l.Direction); err != nil {
		return err
	}
	if !finite(l.Current) {
		return invalidf(KindLine, "current must be finite, got %g", l.Current)
	}
	if l.Direction.IsZero() && l.Current != 0 {
		return invalidf(KindLine, "direction must be non-zero for non-zero current")
	}
	return nil
}

func (l Line) Degenerate() bool { return l.Current == 0 || l.Direction.IsZero() }

var (
	_ Geometry = Dipole{}
	_ Geometry = Circle{}
	_ Geometry = Polyline{}
	_ Geometry = Line{}
)
