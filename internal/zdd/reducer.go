package zdd

// Reduce canonicalizes a Zdd whose Nodes slice is ordered children-first
// (every node's Lo and Hi reference either a terminal or an earlier
// entry, as produced by ParallelBuilder or by reading an export file).
// It applies the same two rules the sequential Builder applies inline:
// zero-suppression (a node with a ⊥ hi-child is elided in favor of its
// lo-child) and unique-table merging (two nodes at the same level with
// identical (lo, hi) children are the same node).
func Reduce(in *Zdd) *Zdd {
	remap := make([]NodeID, len(in.Nodes))
	unique := make(map[triple]NodeID, len(in.Nodes))
	var out []Node

	translate := func(id NodeID) NodeID {
		if id.IsTerminal() {
			return id
		}
		return remap[id-2]
	}

	for i, n := range in.Nodes {
		lo := translate(n.Lo)
		hi := translate(n.Hi)

		if hi == Zero {
			remap[i] = lo
			continue
		}

		tr := triple{n.Level, lo, hi}
		if id, ok := unique[tr]; ok {
			remap[i] = id
			continue
		}

		id := NodeID(len(out) + 2)
		out = append(out, Node{Level: n.Level, Lo: lo, Hi: hi})
		unique[tr] = id
		remap[i] = id
	}

	root := in.Root
	if !root.IsTerminal() {
		root = remap[root-2]
	}
	return &Zdd{Root: root, Nodes: out}
}
