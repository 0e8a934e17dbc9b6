package geometry

import (
	"github.com/magsolve/magsolve/pkg/vector"
)

// Cuboid is a homogeneously polarized cuboid magnet centered at the local
// origin with edges along the local axes. Dimension holds the full edge
// lengths in meters, Polarization the magnetic polarization J = mu0*M in
// Tesla.
type Cuboid struct {
	Dimension    vector.Vec3
	Polarization vector.Vec3
}

func (Cuboid) Kind() Kind { return KindCuboid }

func (c Cuboid) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"dimension.x", c.Dimension.X}, {"dimension.y", c.Dimension.Y}, {"dimension.z", c.Dimension.Z}} {
		if err := checkDimension(KindCuboid, d.name, d.v); err != nil {
			return err
		}
	}
	return checkFiniteVec(KindCuboid, "polarization", c.Polarization)
}

// Degenerate reports whether the cuboid has zero volume or zero excitation.
func (c Cuboid) Degenerate() bool {
	return c.Dimension.X == 0 || c.Dimension.Y == 0 || c.Dimension.Z == 0 ||
		c.Polarization.IsZero()
}

// Cylinder is a homogeneously polarized cylinder magnet centered at the
// local origin with its axis along local z.
type Cylinder struct {
	Diameter     float64
	Height       float64
	Polarization vector.Vec3
}

func (Cylinder) Kind() Kind { return KindCylinder }

func (c Cylinder) Validate() error {
	if err := checkDimension(KindCylinder, "diameter", c.Diameter); err != nil {
		return err
	}
	if err := checkDimension(KindCylinder, "height", c.Height); err != nil {
		return err
	}
	return checkFiniteVec(KindCylinder, "polarization", c.Polarization)
}

func (c Cylinder) Degenerate() bool {
	return c.Diameter == 0 || c.Height == 0 || c.Polarization.IsZero()
}

// CylinderSegment is an annular cylinder section (tile) spanning radii
// [InnerDiameter/2, OuterDiameter/2], height around z, and azimuth
// [Phi1, Phi2] in degrees.
type CylinderSegment struct {
	InnerDiameter float64
	OuterDiameter float64
	Height        float64
	Phi1          float64
	Phi2          float64
	Polarization  vector.Vec3
}

func (CylinderSegment) Kind() Kind { return KindCylinderSegment }

func (c CylinderSegment) Validate() error {
	if err := checkDimension(KindCylinderSegment, "inner diameter", c.InnerDiameter); err != nil {
		return err
	}
	if err := checkDimension(KindCylinderSegment, "outer diameter", c.OuterDiameter); err != nil {
		return err
	}
	if err := checkDimension(KindCylinderSegment, "height", c.Height); err != nil {
		return err
	}
	if c.InnerDiameter > c.OuterDiameter {
		return invalidf(KindCylinderSegment, "inner diameter %g exceeds outer diameter %g",
			c.InnerDiameter, c.OuterDiameter)
	}
	if !finite(c.Phi1) || !finite(c.Phi2) {
		return invalidf(KindCylinderSegment, "section angles must be finite")
	}
	if c.Phi1 > c.Phi2 {
		return invalidf(KindCylinderSegment, "phi1 %g exceeds phi2 %g", c.Phi1, c.Phi2)
	}
	if c.Phi2-c.Phi1 > 360 {
		return invalidf(KindCylinderSegment, "section spans more than 360 degrees")
	}
	return checkFiniteVec(KindCylinderSegment, "polarization", c.Polarization)
}

func (c CylinderSegment) Degenerate() bool {
	return c.OuterDiameter == 0 || c.Height == 0 || c.Phi1 == c.Phi2 ||
		c.InnerDiameter == c.OuterDiameter || c.Polarization.IsZero()
}

// Sphere is a homogeneously polarized sphere magnet centered at the local
// origin.
type Sphere struct {
	Diameter     float64
	Polarization vector.Vec3
}

func (Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Validate() error {
	if err := checkDimension(KindSphere, "diameter", s.Diameter); err != nil {
		return err
	}
	return checkFiniteVec(KindSphere, "polarization", s.Polarization)
}

func (s Sphere) Degenerate() bool {
	return s.Diameter == 0 || s.Polarization.IsZero()
}

// Polyhedron is a homogeneously polarized magnet bounded by a closed
// triangular surface mesh. Faces index into Vertices and must wind so the
// face normals point outward (right-hand rule); inconsistent winding
// silently flips the sign of facet contributions and is not detected.
type Polyhedron struct {
	Vertices     []vector.Vec3
	Faces        [][3]int
	Polarization vector.Vec3
}

func (Polyhedron) Kind() Kind { return KindPolyhedron }

func (p Polyhedron) Validate() error {
	for i, v := range p.Vertices {
		if !v.IsFinite() {
			return invalidf(KindPolyhedron, "vertex %d must be finite", i)
		}
	}
	for i, f := range p.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(p.Vertices) {
				return invalidf(KindPolyhedron, "face %d references vertex %d, have %d vertices",
					i, idx, len(p.Vertices))
			}
		}
	}
	return checkFiniteVec(KindPolyhedron, "polarization", p.Polarization)
}

func (p Polyhedron) Degenerate() bool {
	return len(p.Faces) == 0 || p.Polarization.IsZero()
}

// Tetrahedron is a homogeneously polarized tetrahedral magnet. Faces are
// derived from the four vertices and oriented outward automatically, so
// vertex ordering does not matter.
type Tetrahedron struct {
	Vertices     [4]vector.Vec3
	Polarization vector.Vec3
}

func (Tetrahedron) Kind() Kind { return KindTetrahedron }

func (t Tetrahedron) Validate() error {
	for i, v := range t.Vertices {
		if !v.IsFinite() {
			return invalidf(KindTetrahedron, "vertex %d must be finite", i)
		}
	}
	return checkFiniteVec(KindTetrahedron, "polarization", t.Polarization)
}

// SignedVolume returns the signed volume of the tetrahedron.
func (t Tetrahedron) SignedVolume() float64 {
	a := t.Vertices[1].Sub(t.Vertices[0])
	b := t.Vertices[2].Sub(t.Vertices[0])
	c := t.Vertices[3].Sub(t.Vertices[0])
	return a.Cross(b).Dot(c) / 6
}

func (t Tetrahedron) Degenerate() bool {
	return t.SignedVolume() == 0 || t.Polarization.IsZero()
}

// Mesh returns the tetrahedron as an outward-oriented Polyhedron.
func (t Tetrahedron) Mesh() Polyhedron {
	faces := [][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}
	if t.SignedVolume() < 0 {
		// mirror the winding for inverted vertex order
		for i, f := range faces {
			faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}
	return Polyhedron{
		Vertices:     t.Vertices[:],
		Faces:        faces,
		Polarization: t.Polarization,
	}
}

// ensure interface conformance
var (
	_ Geometry = Cuboid{}
	_ Geometry = Cylinder{}
	_ Geometry = CylinderSegment{}
	_ Geometry = Sphere{}
	_ Geometry = Polyhedron{}
	_ Geometry = Tetrahedron{}
)
