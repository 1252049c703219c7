package zdd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpDot_RealZdd(t *testing.T) {
	spec := &sumSpec{n: 3, target: 2}
	b := NewBuilder[*sumMate](spec)
	dd, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DumpDot(&buf, dd, "ZDD"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph ZDD {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "style=dashed")
	assert.Contains(t, out, "style=solid")
}

func TestDumpDot_TerminalOnly(t *testing.T) {
	dd := &Zdd{Root: Zero}
	var buf bytes.Buffer
	require.NoError(t, DumpDot(&buf, dd, "ZDD"))
	assert.Contains(t, buf.String(), "digraph ZDD")
}
