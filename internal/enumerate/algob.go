package enumerate

import (
	"math"

	"github.com/geotier/solver/internal/zdd"
)

// pathStep is one node visited while replaying the optimal path found by
// algorithm B: the node itself, and whether the path takes its variable
// (continues via Hi) or skips it (continues via Lo).
type pathStep struct {
	id     zdd.NodeID
	tookHi bool
}

// chooseBest runs Algorithm B (Knuth TAOCP 7.1.4, adapted for
// zero-suppression) over dd under weights, returning the decision
// variable levels taken on the best-weighted path, the path itself as a
// node sequence for subtractPath to cut, and the path's total weight.
// weights must already be negated for minimization; chooseBest always
// maximizes.
func chooseBest(dd *zdd.Zdd, weights []float64) (levels []int, path []pathStep, weight float64, err error) {
	if dd.Root == zdd.One {
		return nil, nil, 0, nil
	}

	n := len(dd.Nodes)
	ms := make([]float64, n)
	tookHi := make([]bool, n)

	at := func(id zdd.NodeID) float64 {
		switch id {
		case zdd.Zero:
			return math.Inf(-1)
		case zdd.One:
			return 0
		default:
			return ms[id-2]
		}
	}

	for i, node := range dd.Nodes {
		w := weights[node.Level]

		cur := math.Inf(-1)
		loLive := node.Lo != zdd.Zero
		if loLive {
			cur = at(node.Lo)
			ms[i] = cur
		}

		// Hi is never ⊥ in a zero-suppressed diagram: every node here
		// genuinely offers a take branch.
		m := at(node.Hi) + w
		if !loLive || m > cur {
			ms[i] = m
			tookHi[i] = true
		}
	}

	weight = at(dd.Root)

	cur := dd.Root
	for !cur.IsTerminal() {
		took := tookHi[cur-2]
		path = append(path, pathStep{id: cur, tookHi: took})
		if took {
			levels = append(levels, dd.Level(cur))
			cur = dd.Hi(cur)
		} else {
			cur = dd.Lo(cur)
		}
	}

	return levels, path, weight, nil
}

// subtractPath returns a new ZDD representing dd's family minus the
// single path's accepting configuration, leaving every other path
// untouched. dd itself is not modified.
//
// The path is a straight chain from root to the ⊤ terminal; only nodes
// on it need a new, modified copy (their Lo or Hi redirected to the
// recursively cut child), with the terminal edge itself redirected to
// ⊥. Every other node, including both children of path nodes that the
// path does not continue into, is reused unchanged and may still be
// shared by other accepting paths.
func subtractPath(dd *zdd.Zdd, path []pathStep) (*zdd.Zdd, error) {
	if len(path) == 0 {
		// The only path was the bare ⊤ terminal itself (empty
		// placement); removing it empties the family entirely.
		if dd.Root == zdd.One {
			return &zdd.Zdd{Root: zdd.Zero}, nil
		}
		return dd, nil
	}

	type triple struct {
		level  int32
		lo, hi zdd.NodeID
	}
	unique := make(map[triple]zdd.NodeID, len(dd.Nodes))
	for i, node := range dd.Nodes {
		unique[triple{node.Level, node.Lo, node.Hi}] = zdd.NodeID(i + 2)
	}

	nodes := append([]zdd.Node(nil), dd.Nodes...)
	intern := func(level int32, lo, hi zdd.NodeID) zdd.NodeID {
		if hi == zdd.Zero {
			return lo
		}
		k := triple{level, lo, hi}
		if id, ok := unique[k]; ok {
			return id
		}
		id := zdd.NodeID(len(nodes) + 2)
		nodes = append(nodes, zdd.Node{Level: level, Lo: lo, Hi: hi})
		unique[k] = id
		return id
	}

	cur := zdd.Zero // what the tail of the path collapses into: removing the ⊤ it reached
	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		orig := dd.Nodes[step.id-2]
		if step.tookHi {
			cur = intern(orig.Level, orig.Lo, cur)
		} else {
			cur = intern(orig.Level, cur, orig.Hi)
		}
	}

	return &zdd.Zdd{Root: cur, Nodes: nodes}, nil
}
