package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotier/solver/internal/gdss"
)

func twoTierStore(t *testing.T) *gdss.Store {
	t.Helper()
	s := gdss.New()
	require.NoError(t, s.AddStorageTier("DC1", "ST1_1"))
	require.NoError(t, s.AddStorageTier("DC2", "ST2_1"))
	s.Update()
	return s
}

func TestEncoder_Widths(t *testing.T) {
	s := twoTierStore(t)
	e := New(s)

	assert.Equal(t, 1+2+4, e.Pwidth) // D=2: 1 + D + D^2 = 7
	assert.Equal(t, 1+2, e.Twidth)
	assert.Equal(t, 2*e.Pwidth, e.N) // numST=2 tiers
}

func TestEncoder_DecodeTopLevelIsP(t *testing.T) {
	s := twoTierStore(t)
	e := New(s)

	v, err := e.Decode(e.N)
	require.NoError(t, err)
	assert.Equal(t, KindP, v.Kind)
	assert.Equal(t, 0, v.T)
}

func TestEncoder_DecodeBottomLevelIsB(t *testing.T) {
	s := twoTierStore(t)
	e := New(s)

	v, err := e.Decode(1)
	require.NoError(t, err)
	assert.Equal(t, KindB, v.Kind)
	assert.Equal(t, 1, v.T)
}

func TestEncoder_DecodeOutOfRange(t *testing.T) {
	s := twoTierStore(t)
	e := New(s)

	_, err := e.Decode(0)
	require.Error(t, err)
	_, err = e.Decode(e.N + 1)
	require.Error(t, err)
}

func TestEncoder_AllLevelsDecodeWithoutError(t *testing.T) {
	s := twoTierStore(t)
	e := New(s)

	seenP, seenT, seenB := 0, 0, 0
	for level := 1; level <= e.N; level++ {
		v, err := e.Decode(level)
		require.NoError(t, err)
		switch v.Kind {
		case KindP:
			seenP++
		case KindT:
			seenT++
		case KindB:
			seenB++
		}
	}
	assert.Equal(t, 2, seenP)  // one P per tier
	assert.Equal(t, 4, seenT)  // D T-vars per tier
	assert.Equal(t, 8, seenB)  // D^2 B-vars per tier
}
