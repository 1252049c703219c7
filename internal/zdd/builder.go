package zdd

import "strconv"

// Mate is the per-path state a Spec threads through construction. T must
// be able to clone itself (so the builder can branch into independent lo
// and hi copies) and to produce a stable key for state unification.
type Mate[T any] interface {
	Clone() T
	Key() string
}

// Spec is a top-down ZDD generation rule. Root returns the initial state
// and the top variable level. Child evaluates one variable: it mutates
// mate in place for the given branch (take or skip) and returns the level
// to continue at, or one of the Reject/Accept terminal markers.
type Spec[T Mate[T]] interface {
	Root() (T, int)
	Child(mate T, level int, take bool) (int, error)
}

// Reject and Accept are the terminal markers a Spec's Child may return in
// place of a next level.
const (
	Reject = 0
	Accept = -1
)

type triple struct {
	level  int32
	lo, hi NodeID
}

// Builder constructs a fully reduced Zdd from a Spec by recursive
// top-down expansion, memoized both on (level, state key) to unify
// equivalent paths and on (level, lo, hi) to unify isomorphic subtrees
// (the ZDD unique table).
type Builder[T Mate[T]] struct {
	spec   Spec[T]
	unique map[triple]NodeID
	nodes  []Node
}

// NewBuilder creates a Builder for spec.
func NewBuilder[T Mate[T]](spec Spec[T]) *Builder[T] {
	return &Builder[T]{
		spec:   spec,
		unique: make(map[triple]NodeID),
	}
}

// Build runs the full top-down construction and returns the resulting
// reduced Zdd.
func (b *Builder[T]) Build() (*Zdd, error) {
	mate, level := b.spec.Root()
	cache := make(map[string]NodeID)
	root, err := b.resolve(level, mate, cache)
	if err != nil {
		return nil, err
	}
	return &Zdd{Root: root, Nodes: b.nodes}, nil
}

func mateKey(level int, key string) string {
	return strconv.Itoa(level) + ":" + key
}

// resolve returns the NodeID for (level, mate), building it (and
// recursively its children) if not already cached.
func (b *Builder[T]) resolve(level int, mate T, cache map[string]NodeID) (NodeID, error) {
	switch level {
	case Reject:
		return Zero, nil
	case Accept:
		return One, nil
	}

	key := mateKey(level, mate.Key())
	if id, ok := cache[key]; ok {
		return id, nil
	}

	loMate := mate.Clone()
	loLevel, err := b.spec.Child(loMate, level, false)
	if err != nil {
		return 0, err
	}
	loID, err := b.resolve(loLevel, loMate, cache)
	if err != nil {
		return 0, err
	}

	hiMate := mate.Clone()
	hiLevel, err := b.spec.Child(hiMate, level, true)
	if err != nil {
		return 0, err
	}
	hiID, err := b.resolve(hiLevel, hiMate, cache)
	if err != nil {
		return 0, err
	}

	// Zero-suppression: a node whose hi-child is ⊥ (no element of the
	// path's variable can ever be taken from here) is not created at all;
	// the lo-child stands in for it directly.
	if hiID == Zero {
		cache[key] = loID
		return loID, nil
	}

	tr := triple{int32(level), loID, hiID}
	if id, ok := b.unique[tr]; ok {
		cache[key] = id
		return id, nil
	}

	id := NodeID(len(b.nodes) + 2)
	b.nodes = append(b.nodes, Node{Level: int32(level), Lo: loID, Hi: hiID})
	b.unique[tr] = id
	cache[key] = id
	return id, nil
}
