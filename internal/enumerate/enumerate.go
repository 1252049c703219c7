// Package enumerate produces successive placements of a ZDD-encoded
// solution family in nondecreasing cost order, one at a time, without
// ever materializing the full family. It is a direct translation of
// Knuth's Algorithm B (TAOCP 7.1.4) as adapted for ZDDs: each call to
// Next finds the single best remaining path through the diagram, then
// destructively removes that path so the following call finds the
// next-best one.
package enumerate

import (
	"math"

	apperrors "github.com/geotier/solver/pkg/errors"

	"github.com/geotier/solver/internal/zdd"
)

// Solution is one concrete placement: the set of decision-variable
// levels taken on its path through the diagram, and its total cost.
type Solution struct {
	Levels []int
	Cost   float64
}

// Iterator yields solutions to a weighted ZDD family in nondecreasing
// cost order. It owns its diagram and mutates it on every call to
// Next; a single Iterator must not be shared across goroutines.
type Iterator struct {
	dd      *zdd.Zdd
	weights []float64 // internal, negated so Algorithm B always maximizes
	err     error
}

// NewMinimizingIterator builds an Iterator that enumerates dd's paths
// from lowest to highest cost under costs, a 1-indexed per-level
// weight table as produced by eval.CostList. dd is consumed: the
// caller must not use it after constructing the Iterator.
func NewMinimizingIterator(dd *zdd.Zdd, costs []float64) *Iterator {
	negated := make([]float64, len(costs))
	for i, c := range costs {
		negated[i] = -c
	}
	return &Iterator{dd: dd, weights: negated}
}

// Err returns the first error encountered by Next, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Next returns the next-cheapest solution and true, or a zero
// Solution and false once the family is exhausted or an error has
// occurred. Check Err after the first false return.
func (it *Iterator) Next() (Solution, bool) {
	if it.err != nil || it.dd == nil || it.dd.Root == zdd.Zero {
		return Solution{}, false
	}

	levels, path, negWeight, err := chooseBest(it.dd, it.weights)
	if err != nil {
		it.err = err
		return Solution{}, false
	}

	remaining, err := subtractPath(it.dd, path)
	if err != nil {
		it.err = err
		return Solution{}, false
	}
	it.dd = zdd.Compact(remaining)

	weight := negWeight
	if weight == math.Inf(-1) || weight == math.Inf(1) {
		it.err = apperrors.New(apperrors.CodeSolveInfeasible, "algorithm b produced an unbounded weight")
		return Solution{}, false
	}

	return Solution{Levels: levels, Cost: -weight}, true
}
