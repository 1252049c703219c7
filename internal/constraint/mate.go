package constraint

import "github.com/geotier/solver/pkg/collections"

// Mate is the constant-size per-path state tracked during ZDD construction:
// a base-3 trit per (j,k) data center pair recording whether data center
// k has been decided as a locale for data center j (0 undecided, 1 forbidden,
// 2 required), plus the number of data center faults still to be
// accounted for. Two paths reaching the same level with equal Mate states
// are interchangeable and are unified into one ZDD node.
type Mate struct {
	hash            *collections.TritVector
	faultsRemaining int
}

// newMate creates a fresh Mate for a topology with numDC data centers and
// an initial fault budget of faultsRemaining (the Root operation sets this
// to F+1, matching the original construction).
func newMate(numDC, faultsRemaining int) *Mate {
	return &Mate{
		hash:            collections.NewTritVector(numDC * numDC),
		faultsRemaining: faultsRemaining,
	}
}

// Clone returns an independent copy of m, used before branching a ZDD node
// into its lo (not-take) and hi (take) children.
func (m *Mate) Clone() *Mate {
	return &Mate{
		hash:            m.hash.Clone(),
		faultsRemaining: m.faultsRemaining,
	}
}

// Equal reports whether two Mate states are interchangeable for node
// unification purposes.
func (m *Mate) Equal(o *Mate) bool {
	return m.faultsRemaining == o.faultsRemaining && m.hash.Equal(o.hash)
}

// Key returns a value suitable for use as a ZDD unique-table map key.
func (m *Mate) Key() string {
	return m.hash.Key() + string(rune(m.faultsRemaining))
}
