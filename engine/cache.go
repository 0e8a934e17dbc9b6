package engine

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/magsolve/magsolve/geometry"
	"github.com/magsolve/magsolve/pkg/vector"
)

// resultCache memoizes full query results keyed by a digest of the query
// content. It serves repeated scene evaluations; the hot path never waits
// on it beyond one coarse lock.
type resultCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[uint64]*Result
	order      []uint64 // FIFO eviction
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		maxEntries: maxEntries,
		entries:    make(map[uint64]*Result, maxEntries),
	}
}

// get returns a deep copy of the cached result, if any.
func (c *resultCache) get(key uint64) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return r.clone(), true
}

// put stores a deep copy of the result, evicting the oldest entry when
// full.
func (c *resultCache) put(key uint64, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = r.clone()
	c.order = append(c.order, key)
}

// digest hashes the canonical binary encoding of everything that
// determines the result: kind, sum flag, geometries, paths and observers.
// Source IDs are labels, not inputs, and stay out of the digest.
func digest(q Query) uint64 {
	h := xxhash.New()
	writeU64(h, uint64(q.Kind))
	if q.Sum {
		writeU64(h, 1)
	} else {
		writeU64(h, 0)
	}

	writeU64(h, uint64(len(q.Sources)))
	for _, src := range q.Sources {
		writeGeometry(h, src.Geometry)
		writeU64(h, uint64(len(src.Path)))
		for _, pose := range src.Path {
			writeVec(h, pose.Position)
			writeF64(h, pose.Orientation.W)
			writeF64(h, pose.Orientation.X)
			writeF64(h, pose.Orientation.Y)
			writeF64(h, pose.Orientation.Z)
		}
	}

	writeU64(h, uint64(len(q.Observers)))
	for _, step := range q.Observers {
		writeU64(h, uint64(len(step)))
		for _, p := range step {
			writeVec(h, p)
		}
	}
	return h.Sum64()
}

func writeGeometry(h *xxhash.Digest, g geometry.Geometry) {
	writeU64(h, uint64(g.Kind()))
	switch s := g.(type) {
	case geometry.Cuboid:
		writeVec(h, s.Dimension)
		writeVec(h, s.Polarization)
	case geometry.Cylinder:
		writeF64(h, s.Diameter)
		writeF64(h, s.Height)
		writeVec(h, s.Polarization)
	case geometry.CylinderSegment:
		writeF64(h, s.InnerDiameter)
		writeF64(h, s.OuterDiameter)
		writeF64(h, s.Height)
		writeF64(h, s.Phi1)
		writeF64(h, s.Phi2)
		writeVec(h, s.Polarization)
	case geometry.Sphere:
		writeF64(h, s.Diameter)
		writeVec(h, s.Polarization)
	case geometry.Polyhedron:
		writeU64(h, uint64(len(s.Vertices)))
		for _, v := range s.Vertices {
			writeVec(h, v)
		}
		writeU64(h, uint64(len(s.Faces)))
		for _, f := range s.Faces {
			for _, idx := range f {
				writeU64(h, uint64(idx))
			}
		}
		writeVec(h, s.Polarization)
	case geometry.Tetrahedron:
		for _, v := range s.Vertices {
			writeVec(h, v)
		}
		writeVec(h, s.Polarization)
	case geometry.Dipole:
		writeVec(h, s.Moment)
	case geometry.Circle:
		writeF64(h, s.Diameter)
		writeF64(h, s.Current)
	case geometry.Polyline:
		writeU64(h, uint64(len(s.Vertices)))
		for _, v := range s.Vertices {
			writeVec(h, v)
		}
		writeF64(h, s.Current)
	case geometry.Line:
		writeVec(h, s.Point)
		writeVec(h, s.Direction)
		writeF64(h, s.Current)
	}
}

func writeVec(h *xxhash.Digest, v vector.Vec3) {
	writeF64(h, v.X)
	writeF64(h, v.Y)
	writeF64(h, v.Z)
}

func writeF64(h *xxhash.Digest, v float64) {
	writeU64(h, math.Float64bits(v))
}

func writeU64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
