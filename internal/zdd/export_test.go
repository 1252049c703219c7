package zdd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSapporoRoundTrip(t *testing.T) {
	spec := &sumSpec{n: 3, target: 2}
	b := NewBuilder[*sumMate](spec)
	dd, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DumpSapporo(&buf, dd))

	restored, err := LoadSapporo(&buf)
	require.NoError(t, err)

	assert.Equal(t, dd.Root, restored.Root)
	assert.Equal(t, dd.Nodes, restored.Nodes)
	assert.Equal(t, countPaths(dd, dd.Root, map[NodeID]int{}), countPaths(restored, restored.Root, map[NodeID]int{}))
}

func TestSapporoRoundTrip_TerminalOnly(t *testing.T) {
	dd := &Zdd{Root: One}
	var buf bytes.Buffer
	require.NoError(t, DumpSapporo(&buf, dd))

	restored, err := LoadSapporo(&buf)
	require.NoError(t, err)
	assert.Equal(t, One, restored.Root)
	assert.Empty(t, restored.Nodes)
}

func TestLoadSapporo_RejectsMalformedInput(t *testing.T) {
	_, err := LoadSapporo(bytes.NewBufferString("not a number\n"))
	assert.Error(t, err)
}

func TestLoadSapporo_RejectsOutOfOrderID(t *testing.T) {
	_, err := LoadSapporo(bytes.NewBufferString("1\n9 1 0 1\n2\n"))
	assert.Error(t, err)
}
