package zdd

// Compact discards nodes unreachable from dd.Root, renumbering the
// remaining ones sequentially. It relies on the invariant every Builder,
// ParallelBuilder and Reduce output satisfies: a node's Lo and Hi always
// reference a terminal or a node earlier in Nodes, so filtering to the
// reachable subset in place preserves that same children-first order.
func Compact(dd *Zdd) *Zdd {
	if dd.Root.IsTerminal() {
		return &Zdd{Root: dd.Root}
	}

	reachable := make([]bool, len(dd.Nodes))
	var mark func(id NodeID)
	mark = func(id NodeID) {
		if id.IsTerminal() {
			return
		}
		i := int(id) - 2
		if reachable[i] {
			return
		}
		reachable[i] = true
		n := dd.Nodes[i]
		mark(n.Lo)
		mark(n.Hi)
	}
	mark(dd.Root)

	remap := make([]NodeID, len(dd.Nodes))
	var out []Node
	for i, n := range dd.Nodes {
		if !reachable[i] {
			continue
		}
		lo, hi := n.Lo, n.Hi
		if !lo.IsTerminal() {
			lo = remap[lo-2]
		}
		if !hi.IsTerminal() {
			hi = remap[hi-2]
		}
		remap[i] = NodeID(len(out) + 2)
		out = append(out, Node{Level: n.Level, Lo: lo, Hi: hi})
	}

	root := dd.Root
	if !root.IsTerminal() {
		root = remap[root-2]
	}
	return &Zdd{Root: root, Nodes: out}
}
