package zdd_test

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
	tiers := map[string]string{"DC1": "ST1_1", "DC2": "ST2_1"}
	for dc, tier := range tiers {
		require.NoError(t, s.SetStorageCost(dc, tier, 1))
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

func TestBuilder_GDSSInstanceIsSatisfiable(t *testing.T) {
	store := twoTierStore(t)
	enc := encode.New(store)
	spec, err := constraint.New(store, enc, model.SLAModeEventual)
	require.NoError(t, err)

	b := zdd.NewBuilder[*constraint.Mate](spec)
	dd, err := b.Build()
	require.NoError(t, err)

	require.False(t, dd.IsEmpty(), "a 2-DC, LC=1, F=0 instance must have at least one valid placement")
}
