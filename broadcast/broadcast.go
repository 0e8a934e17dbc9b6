// Package broadcast implements the shape alignment rule between source
// path lengths and the observer step count.
//
// Sequences of equal length zip step by step; a sequence of length one is
// stretched to any length. Everything else is an error: lengths are never
// truncated or padded implicitly.
package broadcast

import (
	"errors"
	"fmt"
)

// ErrIncompatibleShapes reports two sequence lengths that are both greater
// than one and unequal.
var ErrIncompatibleShapes = errors.New("incompatible shapes")

// Align returns the common broadcast length of two sequences.
func Align(p, q int) (int, error) {
	if p < 1 || q < 1 {
		return 0, fmt.Errorf("%w: lengths must be positive, got %d and %d", ErrIncompatibleShapes, p, q)
	}
	switch {
	case p == q:
		return p, nil
	case p == 1:
		return q, nil
	case q == 1:
		return p, nil
	default:
		return 0, fmt.Errorf("%w: %d vs %d", ErrIncompatibleShapes, p, q)
	}
}

// AlignAll folds Align over any number of sequence lengths.
func AlignAll(lengths ...int) (int, error) {
	steps := 1
	for _, l := range lengths {
		var err error
		if steps, err = Align(steps, l); err != nil {
			return 0, err
		}
	}
	return steps, nil
}

// Index maps a broadcast step onto the index within a sequence of length n.
// A length-one sequence repeats its single element.
func Index(step, n int) int {
	if n == 1 {
		return 0
	}
	return step
}
