// Package frame maps observer coordinates between the global frame and each
// source's local frame. Kernels expect points in the local frame where the
// geometry sits in its canonical axis-aligned pose; field vectors rotate
// back to the global frame without translation.
package frame

import (
	"github.com/magsolve/magsolve/pkg/vector"
)

// Pose is a position and orientation in the global frame.
type Pose struct {
	Position    vector.Vec3
	Orientation vector.Rotation
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: vector.Identity()}
}

// ToLocal maps a global-frame point into the pose's local frame:
// inverse rotation after inverse translation.
func (p Pose) ToLocal(point vector.Vec3) vector.Vec3 {
	shifted := point.Sub(p.Position)
	if p.Orientation.IsIdentity() {
		return shifted
	}
	return p.Orientation.ApplyInverse(shifted)
}

// ToGlobal maps a local-frame field vector back to the global frame.
// Field vectors carry direction only, so no translation applies.
func (p Pose) ToGlobal(v vector.Vec3) vector.Vec3 {
	if p.Orientation.IsIdentity() {
		return v
	}
	return p.Orientation.Apply(v)
}

// PointsToLocal maps points into the local frame, writing into out.
// out must have len(points).
func (p Pose) PointsToLocal(out, points []vector.Vec3) {
	if p.Orientation.IsIdentity() {
		for i, pt := range points {
			out[i] = pt.Sub(p.Position)
		}
		return
	}
	inv := p.Orientation.Inverse()
	for i, pt := range points {
		out[i] = inv.Apply(pt.Sub(p.Position))
	}
}

// VectorsToGlobal rotates local-frame vectors to the global frame in place.
func (p Pose) VectorsToGlobal(vs []vector.Vec3) {
	if p.Orientation.IsIdentity() {
		return
	}
	for i, v := range vs {
		vs[i] = p.Orientation.Apply(v)
	}
}

// Compose returns the pose obtained by applying p in the frame of parent:
// position translates and rotates, orientations compose once (no repeated
// re-derivation, so long chains do not drift).
func (p Pose) Compose(parent Pose) Pose {
	return Pose{
		Position:    parent.Position.Add(parent.Orientation.Apply(p.Position)),
		Orientation: p.Orientation.Compose(parent.Orientation),
	}
}
