package enumerate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geotier/solver/internal/constraint"
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/eval"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/internal/zdd"
	"github.com/geotier/solver/pkg/model"
)

// twoTierStore builds a small, fully populated, trivially satisfiable GDSS
// instance: 2 data centers, 1 tier each, LC=1, F=0.
func twoTierStore(t *testing.T) *gdss.Store {
	t.Helper()
	s := gdss.New()
	require.NoError(t, s.AddStorageTier("DC1", "ST1_1"))
	require.NoError(t, s.AddStorageTier("DC2", "ST2_1"))
	s.Update()

	for _, dc := range []string{"DC1", "DC2"} {
		require.NoError(t, s.SetSize(dc, 1))
		require.NoError(t, s.SetGetRequest(dc, 1))
		require.NoError(t, s.SetPutRequest(dc, 1))
	}
	costs := map[string]float64{"DC1": 10, "DC2": 1}
	tiers := map[string]string{"DC1": "ST1_1", "DC2": "ST2_1"}
	for dc, tier := range tiers {
		require.NoError(t, s.SetStorageCost(dc, tier, costs[dc]))
		require.NoError(t, s.SetGetCost(dc, tier, 1))
		require.NoError(t, s.SetPutCost(dc, tier, 1))
		require.NoError(t, s.SetRetrieveCost(dc, tier, 1))
		require.NoError(t, s.SetWriteCost(dc, tier, 1))
		require.NoError(t, s.SetGetLatency(dc, tier, 0.1))
		require.NoError(t, s.SetPutLatency(dc, tier, 0.1))
	}
	for _, dc1 := range []string{"DC1", "DC2"} {
		for _, dc2 := range []string{"DC1", "DC2"} {
			require.NoError(t, s.SetNetworkCost(dc1, dc2, 0.1))
			require.NoError(t, s.SetNetworkLatency(dc1, dc2, 0.1))
		}
	}
	require.NoError(t, s.SetCenter("DC1"))
	require.NoError(t, s.SetSLAGet(10))
	require.NoError(t, s.SetSLAPut(10))
	require.NoError(t, s.SetLC(1))
	require.NoError(t, s.SetF(0))
	require.NoError(t, s.CheckAll())
	return s
}

func buildDD(t *testing.T) (*zdd.Zdd, []float64) {
	t.Helper()
	store := twoTierStore(t)
	enc := encode.New(store)
	spec, err := constraint.New(store, enc, model.SLAModeEventual)
	require.NoError(t, err)

	b := zdd.NewBuilder[*constraint.Mate](spec)
	dd, err := b.Build()
	require.NoError(t, err)

	costs, err := eval.CostList(enc, store)
	require.NoError(t, err)
	return dd, costs
}

func TestIterator_FirstSolutionMatchesEvaluatorOptimum(t *testing.T) {
	dd, costs := buildDD(t)

	ev := NewMinimizingIterator(dd, costs)
	first, ok := ev.Next()
	require.True(t, ok)
	require.NoError(t, ev.Err())

	store := twoTierStore(t)
	enc := encode.New(store)
	spec, err := constraint.New(store, enc, model.SLAModeEventual)
	require.NoError(t, err)
	b := zdd.NewBuilder[*constraint.Mate](spec)
	dd2, err := b.Build()
	require.NoError(t, err)
	optimal, err := eval.NewEvaluator(enc, store).Evaluate(dd2)
	require.NoError(t, err)

	require.InDelta(t, optimal.Cost, first.Cost, 1e-9)
}

func TestIterator_YieldsNondecreasingCosts(t *testing.T) {
	dd, costs := buildDD(t)
	it := NewMinimizingIterator(dd, costs)

	var prev float64
	count := 0
	for {
		sol, ok := it.Next()
		if !ok {
			break
		}
		if count > 0 {
			require.GreaterOrEqual(t, sol.Cost, prev-1e-9)
		}
		prev = sol.Cost
		count++
		if count > 1000 {
			t.Fatal("iterator did not terminate")
		}
	}
	require.NoError(t, it.Err())
	require.Positive(t, count)
}

func TestIterator_ExhaustsExactlyCardinalityManySolutions(t *testing.T) {
	dd, costs := buildDD(t)
	want := eval.Cardinality(dd)

	it := NewMinimizingIterator(dd, costs)
	got := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		got++
		if got > 10000 {
			t.Fatal("iterator did not terminate")
		}
	}
	require.NoError(t, it.Err())
	require.Equal(t, want.Int64(), int64(got))
}

func TestIterator_EmptyFamilyYieldsNothing(t *testing.T) {
	dd := &zdd.Zdd{Root: zdd.Zero}
	it := NewMinimizingIterator(dd, []float64{0})
	_, ok := it.Next()
	require.False(t, ok)
	require.NoError(t, it.Err())
}

func TestIterator_SingleEmptySolution(t *testing.T) {
	dd := &zdd.Zdd{Root: zdd.One}
	it := NewMinimizingIterator(dd, []float64{0})
	sol, ok := it.Next()
	require.True(t, ok)
	require.Empty(t, sol.Levels)
	require.Zero(t, sol.Cost)

	_, ok = it.Next()
	require.False(t, ok)
}
