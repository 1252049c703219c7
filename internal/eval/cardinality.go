package eval

import (
	"math/big"

	"github.com/geotier/solver/internal/zdd"
)

// Cardinality counts the number of placements (paths to the ⊤ terminal)
// represented by dd. The count can exceed the range of a machine int for
// large topologies, so it is computed with math/big.
func Cardinality(dd *zdd.Zdd) *big.Int {
	if dd.Root == zdd.Zero {
		return big.NewInt(0)
	}
	if dd.Root == zdd.One {
		return big.NewInt(1)
	}

	counts := make([]*big.Int, dd.Size())
	at := func(id zdd.NodeID) *big.Int {
		switch id {
		case zdd.Zero:
			return big.NewInt(0)
		case zdd.One:
			return big.NewInt(1)
		default:
			return counts[id-2]
		}
	}

	for i, n := range dd.Nodes {
		counts[i] = new(big.Int).Add(at(n.Lo), at(n.Hi))
	}
	return new(big.Int).Set(at(dd.Root))
}
