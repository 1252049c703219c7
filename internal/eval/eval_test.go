package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geotier/solver/internal/constraint"
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/internal/zdd"
	"github.com/geotier/solver/pkg/model"
)

// twoTierStore builds a small, fully populated, trivially satisfiable GDSS
// instance: 2 data centers, 1 tier each, LC=1, F=0, where DC2's tier is
// cheaper than DC1's so the optimal placement always prefers it.
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

func buildDD(t *testing.T) (*zdd.Zdd, *encode.Encoder, *gdss.Store) {
	t.Helper()
	store := twoTierStore(t)
	enc := encode.New(store)
	spec, err := constraint.New(store, enc, model.SLAModeEventual)
	require.NoError(t, err)

	b := zdd.NewBuilder[*constraint.Mate](spec)
	dd, err := b.Build()
	require.NoError(t, err)
	return dd, enc, store
}

func TestCardinality_Positive(t *testing.T) {
	dd, _, _ := buildDD(t)
	card := Cardinality(dd)
	require.Equal(t, 1, card.Sign())
}

func TestCostList_LengthAndNoError(t *testing.T) {
	_, enc, store := buildDD(t)
	costs, err := CostList(enc, store)
	require.NoError(t, err)
	require.Len(t, costs, enc.N+1)
}

func TestEvaluator_FindsFeasibleOptimum(t *testing.T) {
	dd, enc, store := buildDD(t)
	ev := NewEvaluator(enc, store)
	cfg, err := ev.Evaluate(dd)
	require.NoError(t, err)
	require.False(t, cfg.Cost == 0 && len(cfg.Placements) == 0, "expected a real placement, not the terminal-one default")
	require.NotEmpty(t, cfg.Placements)
}

func TestEvaluator_EmptyFamilyIsInfeasible(t *testing.T) {
	dd := &zdd.Zdd{Root: zdd.Zero}
	_, enc, store := buildDD(t)
	ev := NewEvaluator(enc, store)
	cfg, err := ev.Evaluate(dd)
	require.NoError(t, err)
	require.True(t, cfg.Cost > 1e17)
}

func TestFromLevels_NeverCheaperThanEvaluatorOptimum(t *testing.T) {
	dd, enc, store := buildDD(t)
	ev := NewEvaluator(enc, store)
	optimal, err := ev.Evaluate(dd)
	require.NoError(t, err)

	// Reconstruct the cost of the all-P-taken (both tiers placed, no T or B
	// variable taken) level set directly via FromLevels and confirm it is
	// never cheaper than the evaluator's true optimum.
	levels := make([]int, 0, enc.N)
	for level := 1; level <= enc.N; level++ {
		v, err := enc.Decode(level)
		require.NoError(t, err)
		if v.Kind == encode.KindP {
			levels = append(levels, level)
		}
	}
	cfg, err := FromLevels(enc, store, levels)
	require.NoError(t, err)
	require.GreaterOrEqual(t, cfg.Cost, optimal.Cost)
}
