// Package engine evaluates field queries: it aligns source paths with
// observer steps, transforms observers into each source's local frame, runs
// the analytical kernels and superposes the contributions in the global
// frame.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/magsolve/magsolve/broadcast"
	"github.com/magsolve/magsolve/field"
	"github.com/magsolve/magsolve/frame"
	"github.com/magsolve/magsolve/internal/log"
	"github.com/magsolve/magsolve/pkg/generic"
	"github.com/magsolve/magsolve/pkg/parallel"
	"github.com/magsolve/magsolve/pkg/vector"
)

// Engine runs field queries. It is safe for concurrent use; all mutable
// state is per call except the pools and the optional cache.
type Engine struct {
	cfg     Config
	logger  *zap.Logger
	cache   *resultCache
	scratch *generic.SlicePool[vector.Vec3]
}

// New builds an engine from the config. Zero-value fields fall back to the
// defaults.
func New(cfg Config) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		cfg:     cfg,
		logger:  log.New(cfg.LogLevel),
		scratch: generic.NewSlicePool[vector.Vec3](cfg.ChunkSize),
	}
	if cfg.Cache.Enabled {
		e.cache = newResultCache(cfg.Cache.MaxEntries)
	}
	return e
}

// WithLogger replaces the engine logger, returning the engine for chaining.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	e.logger = logger
	return e
}

// Close flushes the logger.
func (e *Engine) Close() error {
	return e.logger.Sync()
}

// Field evaluates the query. The result is shaped
// aligned-steps x observer-points; contributions of all sources are summed
// elementwise, with a per-source breakdown retained for Sum=false.
func (e *Engine) Field(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	lengths := make([]int, 0, len(q.Sources)+1)
	for _, src := range q.Sources {
		lengths = append(lengths, len(src.Path))
	}
	lengths = append(lengths, q.Observers.Steps())
	steps, err := broadcast.AlignAll(lengths...)
	if err != nil {
		return nil, err
	}
	points := q.Observers.Points()

	var key uint64
	if e.cache != nil {
		key = digest(q)
		if r, ok := e.cache.get(key); ok {
			e.logger.Debug("field query served from cache",
				zap.Int("steps", steps), zap.Int("points", points))
			return r, nil
		}
	}

	res := &Result{Steps: steps, Points: points, Total: newGrid(steps, points)}
	if !q.Sum {
		res.PerSource = make([][][]vector.Vec3, len(q.Sources))
		for i := range res.PerSource {
			res.PerSource[i] = newGrid(steps, points)
		}
	}

	for si, src := range q.Sources {
		for step := 0; step < steps; step++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			pose := src.Path.At(step)
			pts := q.Observers.At(step)
			if err := e.addContribution(res, si, step, q.Kind, src, pose, pts); err != nil {
				return nil, err
			}
		}
	}

	if e.cache != nil {
		e.cache.put(key, res)
	}
	e.logger.Debug("field query evaluated",
		zap.Int("sources", len(q.Sources)),
		zap.Int("steps", steps),
		zap.Int("points", points),
		zap.Stringer("kind", q.Kind),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// addContribution accumulates one (source, step) pair into the result,
// chunking the points across workers. Chunks write disjoint index ranges,
// so no locking is needed.
func (e *Engine) addContribution(res *Result, si, step int, kind field.Kind, src Source, pose frame.Pose, pts []vector.Vec3) error {
	total := res.Total[step]
	var per []vector.Vec3
	if res.PerSource != nil {
		per = res.PerSource[si][step]
	}

	return parallel.ForEachChunk(len(pts), e.cfg.ChunkSize, e.cfg.Workers, func(c parallel.Chunk) error {
		n := c.End - c.Start
		local := e.scratch.Get(n)
		defer e.scratch.Put(local)
		out := e.scratch.Get(n)
		defer e.scratch.Put(out)

		pose.PointsToLocal(local, pts[c.Start:c.End])
		if err := field.Evaluate(kind, src.Geometry, local, out); err != nil {
			return err
		}
		pose.VectorsToGlobal(out)

		for i, v := range out {
			total[c.Start+i] = total[c.Start+i].Add(v)
			if per != nil {
				per[c.Start+i] = v
			}
		}
		return nil
	})
}
