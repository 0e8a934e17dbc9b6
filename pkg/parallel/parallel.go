// Package parallel provides chunked data-parallel helpers for index ranges.
// Field evaluation is point-wise independent, so work is split into
// contiguous chunks that write to disjoint output slices without locking.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Chunk is a half-open index range [Start, End).
type Chunk struct {
	Start int
	End   int
}

// Chunks splits [0, n) into ranges of at most size elements.
func Chunks(n, size int) []Chunk {
	if n <= 0 {
		return nil
	}
	if size < 1 {
		size = n
	}
	out := make([]Chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, Chunk{Start: start, End: end})
	}
	return out
}

// ForEachChunk runs action over [0, n) split into chunks of chunkSize,
// with at most workers goroutines. It returns the first error encountered.
// workers <= 0 means GOMAXPROCS; small inputs run inline.
func ForEachChunk(n, chunkSize, workers int, action func(Chunk) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunks := Chunks(n, chunkSize)
	if len(chunks) == 1 || workers == 1 {
		for _, c := range chunks {
			if err := action(c); err != nil {
				return err
			}
		}
		return nil
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, c := range chunks {
		c := c
		eg.Go(func() error {
			return action(c)
		})
	}
	return eg.Wait()
}

// ForEach runs action for each index in [0, n) with at most workers
// goroutines, one chunk per worker.
func ForEach(n, workers int, action func(i int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	size := (n + workers - 1) / workers
	return ForEachChunk(n, size, workers, func(c Chunk) error {
		for i := c.Start; i < c.End; i++ {
			if err := action(i); err != nil {
				return err
			}
		}
		return nil
	})
}
