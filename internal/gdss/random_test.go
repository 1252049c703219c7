package gdss

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomInstance_Reproducible(t *testing.T) {
	dcList := []int{2, 1}

	s1, err := NewRandomInstance(dcList, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	s2, err := NewRandomInstance(dcList, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.Equal(t, s1.DataCenters(), s2.DataCenters())
	c1, _ := s1.Center()
	c2, _ := s2.Center()
	assert.Equal(t, c1, c2)
	size1, _ := s1.Size("DC1")
	size2, _ := s2.Size("DC1")
	assert.Equal(t, size1, size2)
}

func TestNewRandomInstance_Topology(t *testing.T) {
	s, err := NewRandomInstance([]int{2, 3}, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	assert.Equal(t, 2, s.NumDataCenters())
	assert.Equal(t, 5, s.NumStorageTiers())
	assert.NoError(t, s.CheckAll())

	lc, _ := s.LC()
	assert.Equal(t, 1, lc)
	f, _ := s.F()
	assert.Equal(t, 0, f)
}

func TestNewRandomInstance_RejectsEmpty(t *testing.T) {
	_, err := NewRandomInstance(nil, rand.New(rand.NewPCG(1, 1)))
	require.Error(t, err)
}
