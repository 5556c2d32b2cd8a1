package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepGraph_ReadersAndUnlink(t *testing.T) {
	sh := NewSheet("s")
	g, ok := sh.Dependents().(*DepGraph)
	require.True(t, ok)

	c := setText(t, sh, "C1", "=SUM(A1:A2) + B1")
	assert.True(t, g.IsLinked(c))
	for _, ref := range []string{"A1", "A2", "B1"} {
		pos, err := ParseCellPos(ref)
		require.NoError(t, err)
		assert.Equal(t, []*Cell{c}, g.Readers(pos), ref)
	}

	require.NoError(t, c.SetValue(NewFloat(1), nil))
	assert.False(t, g.IsLinked(c))
	assert.Empty(t, g.Readers(NewCellPos(0, 0)))
	assert.Empty(t, g.Queue())
}

func TestDepGraph_ChainedRecalc(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "1")
	b1 := setText(t, sh, "B1", "=A1 + 1")
	c1 := setText(t, sh, "C1", "=B1 * 10")
	sh.Recalc()
	assert.Equal(t, 20.0, c1.Value().Float())

	setText(t, sh, "A1", "4")
	g := sh.Dependents().(*DepGraph)
	q := g.Queue()
	require.Len(t, q, 2)
	assert.Same(t, c1, q[0])
	assert.Same(t, b1, q[1])

	assert.Equal(t, 1, sh.Recalc())
	assert.Equal(t, 5.0, b1.Value().Float())
	assert.Equal(t, 50.0, c1.Value().Float())
	assert.False(t, b1.IsPending())
}

func TestDepGraph_QueueRecalcMovesToHead(t *testing.T) {
	sh := NewSheet("s")
	a := setText(t, sh, "A1", "=1")
	b := setText(t, sh, "B1", "=2")
	g := sh.Dependents().(*DepGraph)
	assert.Equal(t, []*Cell{b, a}, g.Queue())

	g.QueueRecalc(a)
	assert.Equal(t, []*Cell{a, b}, g.Queue())
}
