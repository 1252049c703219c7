package zdd

import (
	"context"

	"github.com/geotier/solver/pkg/parallel"
)

// ref points at a not-yet-assigned child: either a terminal, or a
// (level, key) pair still waiting to be resolved to a NodeID once its own
// level has been processed.
type ref struct {
	terminal bool
	term     NodeID
	level    int
	key      string
}

func terminalRef(id NodeID) ref { return ref{terminal: true, term: id} }

type pendingNode struct {
	key    string
	lo, hi ref
}

// ParallelBuilder constructs a Zdd the same way Builder does, except that
// all states discovered at a given level are expanded concurrently
// through a worker pool, one level at a time, top level first. States are
// still unified by key within a level, matching the sequential builder's
// semantics; the result is canonicalized by Reduce afterward since
// cross-level (lo, hi) unique-table merging cannot safely happen until a
// level's children are fully resolved.
type ParallelBuilder[T Mate[T]] struct {
	spec Spec[T]
	pool *parallel.WorkerPool[T, childExpansion]
}

type childExpansion struct {
	loLevel int
	loMate  T
	hiLevel int
	hiMate  T
}

// NewParallelBuilder creates a ParallelBuilder for spec using the given
// worker pool configuration.
func NewParallelBuilder[T Mate[T]](spec Spec[T], cfg parallel.PoolConfig) *ParallelBuilder[T] {
	return &ParallelBuilder[T]{
		spec: spec,
		pool: parallel.NewWorkerPool[T, childExpansion](cfg),
	}
}

// Build runs the level-synchronous concurrent construction and returns
// the canonicalized (reduced) Zdd.
func (b *ParallelBuilder[T]) Build(ctx context.Context) (*Zdd, error) {
	rootMate, rootLevel := b.spec.Root()
	if rootLevel == Reject || rootLevel == Accept {
		if rootLevel == Accept {
			return &Zdd{Root: One}, nil
		}
		return &Zdd{Root: Zero}, nil
	}

	frontier := map[int]map[string]T{rootLevel: {rootMate.Key(): rootMate}}
	edges := map[int]map[string]pendingNode{}

	for level := rootLevel; level >= 1; level-- {
		states, ok := frontier[level]
		if !ok || len(states) == 0 {
			continue
		}
		delete(frontier, level)

		keys := make([]string, 0, len(states))
		tasks := make([]parallel.Task[T, childExpansion], 0, len(states))
		for k, mate := range states {
			keys = append(keys, k)
			tasks = append(tasks, parallel.NewTask(mate, func(ctx context.Context, mate T) (childExpansion, error) {
				loMate := mate.Clone()
				loLevel, err := b.spec.Child(loMate, level, false)
				if err != nil {
					return childExpansion{}, err
				}
				hiMate := mate.Clone()
				hiLevel, err := b.spec.Child(hiMate, level, true)
				if err != nil {
					return childExpansion{}, err
				}
				return childExpansion{loLevel: loLevel, loMate: loMate, hiLevel: hiLevel, hiMate: hiMate}, nil
			}))
		}

		results := b.pool.Execute(ctx, tasks)
		levelEdges := make(map[string]pendingNode, len(states))
		for i, res := range results {
			if res.Error != nil {
				return nil, res.Error
			}
			key := keys[i]
			exp := res.Result

			loRef := b.admit(exp.loLevel, exp.loMate, frontier)
			hiRef := b.admit(exp.hiLevel, exp.hiMate, frontier)
			levelEdges[key] = pendingNode{key: key, lo: loRef, hi: hiRef}
		}
		edges[level] = levelEdges
	}

	return assembleBottomUp(rootLevel, rootMate.Key(), edges)
}

// admit registers a child state in the frontier (if it is not a
// terminal) and returns a ref to it.
func (b *ParallelBuilder[T]) admit(level int, mate T, frontier map[int]map[string]T) ref {
	switch level {
	case Reject:
		return terminalRef(Zero)
	case Accept:
		return terminalRef(One)
	}
	states, ok := frontier[level]
	if !ok {
		states = make(map[string]T)
		frontier[level] = states
	}
	key := mate.Key()
	if _, exists := states[key]; !exists {
		states[key] = mate
	}
	return ref{level: level, key: key}
}

// assembleBottomUp walks levels 1..N assigning sequential NodeIDs to every
// pending node (children always resolved before parents, since edges only
// ever point at strictly lower levels or terminals), then hands the raw
// node list to Reduce for canonicalization.
func assembleBottomUp(rootLevel int, rootKey string, edges map[int]map[string]pendingNode) (*Zdd, error) {
	resolved := map[int]map[string]NodeID{}
	var nodes []Node

	resolveRef := func(r ref) NodeID {
		if r.terminal {
			return r.term
		}
		return resolved[r.level][r.key]
	}

	maxLevel := rootLevel
	for level := 1; level <= maxLevel; level++ {
		levelEdges, ok := edges[level]
		if !ok {
			continue
		}
		out := make(map[string]NodeID, len(levelEdges))
		for key, pn := range levelEdges {
			loID := resolveRef(pn.lo)
			hiID := resolveRef(pn.hi)
			id := NodeID(len(nodes) + 2)
			nodes = append(nodes, Node{Level: int32(level), Lo: loID, Hi: hiID})
			out[key] = id
		}
		resolved[level] = out
	}

	root := resolved[rootLevel][rootKey]
	raw := &Zdd{Root: root, Nodes: nodes}
	return Reduce(raw), nil
}
