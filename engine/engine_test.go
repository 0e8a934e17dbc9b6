package engine

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/magsolve/magsolve/broadcast"
	"github.com/magsolve/magsolve/field"
	"github.com/magsolve/magsolve/frame"
	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/internal/log"
	"github.com/magsolve/magsolve/pkg/vector"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEngine(cfg Config) *Engine {
	return New(cfg).WithLogger(log.Nop())
}

func mustSource(t *testing.T, g geometry.Geometry, path frame.Path) Source {
	t.Helper()
	src, err := NewSource(g, path)
	require.NoError(t, err)
	return src
}

func testMagnet() geometry.Geometry {
	return geometry.Sphere{Diameter: 0.1, Polarization: vector.Vec3{X: 0.2, Z: 1}}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(testMagnet(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, [16]byte(src.ID))
	require.Len(t, src.Path, 1)
	assert.True(t, src.Path[0].Orientation.IsIdentity())

	_, err = NewSource(nil, nil)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)

	_, err = NewSource(geometry.Sphere{Diameter: -1}, nil)
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

func TestQueryValidation(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()
	obs := StaticObservers([]vector.Vec3{{X: 0.2}})
	src := mustSource(t, testMagnet(), nil)

	_, err := e.Field(ctx, Query{Observers: obs, Kind: field.B})
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = e.Field(ctx, Query{Sources: []Source{src}, Kind: field.B})
	assert.ErrorIs(t, err, ErrNoObservers)

	_, err = e.Field(ctx, Query{Sources: []Source{src}, Observers: obs})
	assert.ErrorIs(t, err, field.ErrUnsupportedKind)

	bad := Source{Geometry: geometry.Cuboid{Dimension: vector.Vec3{X: -1, Y: 1, Z: 1}}, Path: frame.StaticPath(vector.Vec3{})}
	_, err = e.Field(ctx, Query{Sources: []Source{bad}, Observers: obs, Kind: field.B})
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

func TestObserversValidate(t *testing.T) {
	assert.ErrorIs(t, Observers{}.Validate(), ErrNoObservers)
	assert.ErrorIs(t, Observers{{}}.Validate(), ErrNoObservers)

	ragged := Observers{{{X: 0, Y: 0, Z: 0}}, {{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}}
	assert.Error(t, ragged.Validate())

	inf := Observers{{{X: math.Inf(1), Y: 0, Z: 0}}}
	assert.Error(t, inf.Validate())
}

func TestObserversAt(t *testing.T) {
	static := StaticObservers([]vector.Vec3{{X: 1}})
	assert.Equal(t, static[0], static.At(0))
	assert.Equal(t, static[0], static.At(7))

	moving := Observers{{{X: 1}}, {{X: 2}}}
	assert.Equal(t, moving[1], moving.At(1))
	assert.Equal(t, 2, moving.Steps())
	assert.Equal(t, 1, moving.Points())
}

// The total field of several sources is the elementwise sum of the
// individual fields; Sum=false exposes the addends.
func TestSuperposition(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()

	a := mustSource(t, geometry.Sphere{Diameter: 0.1, Polarization: vector.Vec3{Z: 1}},
		frame.StaticPath(vector.Vec3{X: -0.2}))
	b := mustSource(t, geometry.Circle{Diameter: 0.1, Current: 10},
		frame.StaticPath(vector.Vec3{X: 0.2}))
	obs := StaticObservers([]vector.Vec3{{X: 0, Y: 0.1, Z: 0.05}, {X: 0.1, Y: -0.2, Z: 0.3}})

	both, err := e.Field(ctx, Query{Sources: []Source{a, b}, Observers: obs, Kind: field.B})
	require.NoError(t, err)

	onlyA, err := e.Field(ctx, Query{Sources: []Source{a}, Observers: obs, Kind: field.B})
	require.NoError(t, err)
	onlyB, err := e.Field(ctx, Query{Sources: []Source{b}, Observers: obs, Kind: field.B})
	require.NoError(t, err)

	for i := range both.Total[0] {
		want := onlyA.Total[0][i].Add(onlyB.Total[0][i])
		got := both.Total[0][i]
		assert.InDelta(t, want.X, got.X, 1e-18)
		assert.InDelta(t, want.Y, got.Y, 1e-18)
		assert.InDelta(t, want.Z, got.Z, 1e-18)
	}

	split, err := e.Field(ctx, Query{Sources: []Source{a, b}, Observers: obs, Kind: field.B, Sum: false})
	require.NoError(t, err)
	require.Len(t, split.PerSource, 2)
	assert.Empty(t, cmp.Diff(onlyA.Total, split.PerSource[0]))
	assert.Empty(t, cmp.Diff(onlyB.Total, split.PerSource[1]))

	summed, err := e.Field(ctx, Query{Sources: []Source{a, b}, Observers: obs, Kind: field.B, Sum: true})
	require.NoError(t, err)
	assert.Nil(t, summed.PerSource)
	assert.Empty(t, cmp.Diff(both.Total, summed.Total))
}

// Moving the source is the same as moving the observers the opposite way.
func TestTranslationConsistency(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()
	shift := vector.Vec3{X: 0.3, Y: -0.1, Z: 0.2}

	moved := mustSource(t, testMagnet(), frame.StaticPath(shift))
	fixed := mustSource(t, testMagnet(), nil)

	p := vector.Vec3{X: 0.4, Y: 0.2, Z: 0.1}
	rMoved, err := e.Field(ctx, Query{Sources: []Source{moved},
		Observers: StaticObservers([]vector.Vec3{p}), Kind: field.B})
	require.NoError(t, err)
	rFixed, err := e.Field(ctx, Query{Sources: []Source{fixed},
		Observers: StaticObservers([]vector.Vec3{p.Sub(shift)}), Kind: field.B})
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(rFixed.Total, rMoved.Total))
}

// Rotating the source rotates its field pattern: B_rot(p) = R * B(R^-1 p).
func TestRotationEquivariance(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()

	g := geometry.Cuboid{Dimension: vector.Vec3{X: 0.1, Y: 0.2, Z: 0.05}, Polarization: vector.Vec3{X: 0.4, Z: 1}}
	rot := vector.AxisAngle(vector.Vec3{Z: 1}, math.Pi/2)

	rotated := mustSource(t, g, frame.PosePath(vector.Vec3{}, rot))
	plain := mustSource(t, g, nil)

	p := vector.Vec3{X: 0.2, Y: 0.15, Z: 0.1}
	rRot, err := e.Field(ctx, Query{Sources: []Source{rotated},
		Observers: StaticObservers([]vector.Vec3{p}), Kind: field.B})
	require.NoError(t, err)
	rPlain, err := e.Field(ctx, Query{Sources: []Source{plain},
		Observers: StaticObservers([]vector.Vec3{rot.ApplyInverse(p)}), Kind: field.B})
	require.NoError(t, err)

	want := rot.Apply(rPlain.Total[0][0])
	got := rRot.Total[0][0]
	assert.InDelta(t, want.X, got.X, 1e-15)
	assert.InDelta(t, want.Y, got.Y, 1e-15)
	assert.InDelta(t, want.Z, got.Z, 1e-15)
}

func TestPathObserverBroadcast(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()

	path := frame.Path{
		{Position: vector.Vec3{X: -0.3}, Orientation: vector.Identity()},
		{Position: vector.Vec3{}, Orientation: vector.Identity()},
		{Position: vector.Vec3{X: 0.3}, Orientation: vector.Identity()},
	}
	src := mustSource(t, testMagnet(), path)
	obs := StaticObservers([]vector.Vec3{{Y: 0.2}})

	// 3-step path against static observers: 3 steps, one point each
	r, err := e.Field(ctx, Query{Sources: []Source{src}, Observers: obs, Kind: field.B})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Steps)
	assert.Equal(t, 1, r.Points)
	assert.NotEqual(t, r.Total[0][0], r.Total[1][0])

	// equal step counts zip; the symmetric setup gives mirrored steps
	moving := Observers{{{X: -0.3, Y: 0.2}}, {{Y: 0.2}}, {{X: 0.3, Y: 0.2}}}
	r2, err := e.Field(ctx, Query{Sources: []Source{src}, Observers: moving, Kind: field.B})
	require.NoError(t, err)
	assert.Equal(t, 3, r2.Steps)
	assert.Empty(t, cmp.Diff(r2.Total[0], r2.Total[1]))
	assert.Empty(t, cmp.Diff(r2.Total[1], r2.Total[2]))

	// mismatched step counts are rejected
	two := Observers{{{Y: 0.2}}, {{Y: 0.3}}}
	_, err = e.Field(ctx, Query{Sources: []Source{src}, Observers: two, Kind: field.B})
	assert.ErrorIs(t, err, broadcast.ErrIncompatibleShapes)
}

// A single-step path stretched over N observer steps matches the same pose
// replicated N times.
func TestSingleStepPathStretches(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx := context.Background()

	pose := frame.Pose{Position: vector.Vec3{X: 0.1}, Orientation: vector.AxisAngle(vector.Vec3{Z: 1}, 0.3)}
	single := mustSource(t, testMagnet(), frame.Path{pose})
	replicated := mustSource(t, testMagnet(), frame.Path{pose, pose, pose})
	moving := Observers{{{Y: 0.2}}, {{Y: 0.25}}, {{Y: 0.3}}}

	r1, err := e.Field(ctx, Query{Sources: []Source{single}, Observers: moving, Kind: field.B})
	require.NoError(t, err)
	r3, err := e.Field(ctx, Query{Sources: []Source{replicated}, Observers: moving, Kind: field.B})
	require.NoError(t, err)

	assert.Equal(t, 3, r1.Steps)
	assert.Empty(t, cmp.Diff(r1.Total, r3.Total))
}

// The result must not depend on how work is chunked across workers.
func TestWorkerCountInvariance(t *testing.T) {
	points := make([]vector.Vec3, 500)
	for i := range points {
		f := float64(i)
		points[i] = vector.Vec3{X: 0.2 + f*1e-3, Y: -0.1 + f*2e-3, Z: 0.05}
	}
	src, err := NewSource(testMagnet(), nil)
	require.NoError(t, err)
	q := Query{Sources: []Source{src}, Observers: StaticObservers(points), Kind: field.H}

	var baseline *Result
	for _, workers := range []int{1, 2, 8} {
		cfg := DefaultConfig()
		cfg.Workers = workers
		cfg.ChunkSize = 64
		r, err := newTestEngine(cfg).Field(context.Background(), q)
		require.NoError(t, err)
		if baseline == nil {
			baseline = r
			continue
		}
		assert.Empty(t, cmp.Diff(baseline.Total, r.Total), "workers=%d", workers)
	}
}

func TestContextCancellation(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := mustSource(t, testMagnet(), nil)
	_, err := e.Field(ctx, Query{Sources: []Source{src},
		Observers: StaticObservers([]vector.Vec3{{X: 0.2}}), Kind: field.B})
	assert.ErrorIs(t, err, context.Canceled)
}
