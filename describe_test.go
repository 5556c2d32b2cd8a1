package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	sh := NewSheet("report")
	setText(t, sh, "A1", "1,200")
	setText(t, sh, "B1", "=A1*2")
	setText(t, sh, "A2", "note")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "C1:D1"), MustParseExpr("[1, 2]"), true))

	conds := NewConditions()
	require.NoError(t, conds.Append(mustRule(t, CondGreater, boldRed(), "100")))
	require.NoError(t, sh.Styles().SetStyle(mustRange(t, "A1"), NewStyleBuilder().SetConditions(conds).Build()))
	sh.Recalc()

	out := Describe(sh)
	assert.Contains(t, out, "Sheet: report (5 cells, 2 styles)")
	assert.Contains(t, out, "    A1: 1200 [float] format #,##0\n")
	assert.Contains(t, out, "    B1: =A1*2 -> 2400\n")
	assert.Contains(t, out, "    C1: {=[1, 2]} array C1:D1 -> 1\n")
	assert.NotContains(t, out, "    D1:")
	assert.Contains(t, out, "    A2: note [string]\n")
	assert.Contains(t, out, "  Styles:\n    A1: ")
	assert.Contains(t, out, "      rule 0: greater(100) -> ")
}

func TestDescribe_EmptySheet(t *testing.T) {
	assert.Equal(t, "Sheet: empty (0 cells, 1 styles)\n", Describe(NewSheet("empty")))
}
