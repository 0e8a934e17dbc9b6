package frame

import (
	"errors"

	"github.com/magsolve/magsolve/broadcast"
	"github.com/magsolve/magsolve/pkg/vector"
)

// ErrEmptyPath reports a path without any pose.
var ErrEmptyPath = errors.New("path must contain at least one pose")

// Path is an ordered sequence of poses representing a source's state over
// discrete steps. Paths are append-only; the engine only reads them.
type Path []Pose

// StaticPath returns a single-step path at the given position without
// rotation.
func StaticPath(position vector.Vec3) Path {
	return Path{{Position: position, Orientation: vector.Identity()}}
}

// PosePath returns a single-step path with the given pose.
func PosePath(position vector.Vec3, orientation vector.Rotation) Path {
	return Path{{Position: position, Orientation: orientation}}
}

// Validate checks that the path has at least one step.
func (p Path) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	return nil
}

// At returns the pose for the given aligned step, broadcasting a
// single-step path to any step index.
func (p Path) At(step int) Pose {
	return p[broadcast.Index(step, len(p))]
}

// Append returns the path extended by one pose.
func (p Path) Append(pose Pose) Path {
	return append(p, pose)
}

// Translate returns a new path with every position shifted by d.
func (p Path) Translate(d vector.Vec3) Path {
	out := make(Path, len(p))
	for i, pose := range p {
		out[i] = Pose{Position: pose.Position.Add(d), Orientation: pose.Orientation}
	}
	return out
}
