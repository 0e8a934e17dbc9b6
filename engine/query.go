package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/magsolve/magsolve/broadcast"
	"github.com/magsolve/magsolve/field"
	"github.com/magsolve/magsolve/frame"
	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Source couples a geometry descriptor with its pose path. The ID labels
// the source in per-source results and logs; it has no effect on the field.
type Source struct {
	ID       uuid.UUID
	Geometry geometry.Geometry
	Path     frame.Path
}

// NewSource builds a validated source with a fresh ID. A nil path is
// replaced by the identity pose at the origin.
func NewSource(g geometry.Geometry, path frame.Path) (Source, error) {
	if g == nil {
		return Source{}, fmt.Errorf("%w: source has no geometry", geometry.ErrInvalidGeometry)
	}
	if err := g.Validate(); err != nil {
		return Source{}, err
	}
	if len(path) == 0 {
		path = frame.Path{frame.IdentityPose()}
	}
	return Source{ID: uuid.New(), Geometry: g, Path: path}, nil
}

// Observers holds one point set per step. A single step broadcasts across
// all path steps; multiple steps must carry the same number of points.
type Observers [][]vector.Vec3

// StaticObservers wraps one fixed point set.
func StaticObservers(points []vector.Vec3) Observers {
	return Observers{points}
}

// Validate checks for at least one step, at least one point, equal step
// lengths and finite coordinates.
func (o Observers) Validate() error {
	if len(o) == 0 || len(o[0]) == 0 {
		return ErrNoObservers
	}
	n := len(o[0])
	for s, step := range o {
		if len(step) != n {
			return fmt.Errorf("%w: step %d has %d points, step 0 has %d",
				ErrNoObservers, s, len(step), n)
		}
		for i, p := range step {
			if !p.IsFinite() {
				return fmt.Errorf("observer step %d point %d is not finite", s, i)
			}
		}
	}
	return nil
}

// Steps returns the number of observer steps.
func (o Observers) Steps() int { return len(o) }

// Points returns the number of points per step.
func (o Observers) Points() int {
	if len(o) == 0 {
		return 0
	}
	return len(o[0])
}

// At returns the point set for the given aligned step, broadcasting a
// single-step observer set to any step index.
func (o Observers) At(step int) []vector.Vec3 {
	return o[broadcast.Index(step, len(o))]
}

// Query is one field computation request. It is read-only for the engine;
// the same query can be issued repeatedly.
type Query struct {
	Sources   []Source
	Observers Observers
	Kind      field.Kind
	// Sum collapses the per-source axis; when false the result retains the
	// per-source breakdown alongside the total.
	Sum bool
}

// Validate checks the request without evaluating it.
func (q Query) Validate() error {
	if err := q.Kind.Validate(); err != nil {
		return err
	}
	if len(q.Sources) == 0 {
		return ErrNoSources
	}
	for i, src := range q.Sources {
		if src.Geometry == nil {
			return fmt.Errorf("%w: source %d has no geometry", geometry.ErrInvalidGeometry, i)
		}
		if err := src.Geometry.Validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if err := src.Path.Validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	return q.Observers.Validate()
}

// Result is the evaluated field, shaped steps x points. PerSource is
// populated only for Sum=false queries, indexed like Query.Sources.
type Result struct {
	Steps     int
	Points    int
	Total     [][]vector.Vec3
	PerSource [][][]vector.Vec3
}

// clone returns a deep copy, so cached results stay immutable.
func (r *Result) clone() *Result {
	out := &Result{Steps: r.Steps, Points: r.Points}
	out.Total = cloneGrid(r.Total)
	if r.PerSource != nil {
		out.PerSource = make([][][]vector.Vec3, len(r.PerSource))
		for i, g := range r.PerSource {
			out.PerSource[i] = cloneGrid(g)
		}
	}
	return out
}

func cloneGrid(g [][]vector.Vec3) [][]vector.Vec3 {
	out := make([][]vector.Vec3, len(g))
	for i, row := range g {
		out[i] = append([]vector.Vec3(nil), row...)
	}
	return out
}

func newGrid(steps, points int) [][]vector.Vec3 {
	out := make([][]vector.Vec3, steps)
	for i := range out {
		out[i] = make([]vector.Vec3, points)
	}
	return out
}
