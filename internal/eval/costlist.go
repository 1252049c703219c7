package eval

import (
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
)

// CostList returns the per-level marginal cost of taking each decision
// variable, indexed 1..N (index 0 is unused, matching the 1-indexed
// variable levels). The weighted enumerator uses this as the weight
// function for Algorithm B.
func CostList(enc *encode.Encoder, store *gdss.Store) ([]float64, error) {
	costs := make([]float64, enc.N+1)
	for level := 1; level <= enc.N; level++ {
		c, err := levelCost(enc, store, level)
		if err != nil {
			return nil, err
		}
		costs[level] = c
	}
	return costs, nil
}
