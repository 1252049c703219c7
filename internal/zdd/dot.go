package zdd

import (
	"fmt"
	"io"
)

// DumpDot writes dd as a Graphviz DOT digraph to w, for visual inspection.
// Lo edges are dashed, hi edges solid, matching the usual ZDD drawing
// convention.
func DumpDot(w io.Writer, dd *Zdd, name string) error {
	if _, err := fmt.Fprintf(w, "digraph %s {\n", name); err != nil {
		return err
	}

	if dd.Root.IsTerminal() {
		if err := writeTerminals(w, dd.Root); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "}")
		return err
	}

	usedTerminal := map[NodeID]bool{}
	for i, n := range dd.Nodes {
		id := NodeID(i + 2)
		if _, err := fmt.Fprintf(w, "  %d [label=\"%d\"];\n", id, n.Level); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %d -> %s [style=dashed];\n", id, dotTarget(n.Lo)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %d -> %s [style=solid];\n", id, dotTarget(n.Hi)); err != nil {
			return err
		}
		if n.Lo.IsTerminal() {
			usedTerminal[n.Lo] = true
		}
		if n.Hi.IsTerminal() {
			usedTerminal[n.Hi] = true
		}
	}
	for term := range usedTerminal {
		if err := writeTerminal(w, term); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func dotTarget(id NodeID) string {
	if id.IsTerminal() {
		return string(terminalName(id))
	}
	return fmt.Sprintf("%d", id)
}

func terminalName(id NodeID) string {
	if id == One {
		return "T"
	}
	return "B"
}

func writeTerminal(w io.Writer, id NodeID) error {
	_, err := fmt.Fprintf(w, "  %s [shape=box,label=\"%s\"];\n", terminalName(id), map[NodeID]string{Zero: "0", One: "1"}[id])
	return err
}

func writeTerminals(w io.Writer, root NodeID) error {
	return writeTerminal(w, root)
}
