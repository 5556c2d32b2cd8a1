package cellstyle

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setText(t *testing.T, sh *Sheet, ref, text string) *Cell {
	t.Helper()
	pos, err := ParseCellPos(ref)
	require.NoError(t, err)
	c := sh.FetchCell(pos.Col, pos.Row)
	require.NoError(t, c.SetText(text))
	return c
}

func valueAt(t *testing.T, sh *Sheet, ref string) Value {
	t.Helper()
	pos, err := ParseCellPos(ref)
	require.NoError(t, err)
	return sh.ValueAt(pos.Col, pos.Row)
}

func TestSheet_ArrayFormulaCornerIsQueuedFirst(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "B2:C3"), MustParseExpr("=[[1, 2], [3, 4]]"), true))

	queue := sh.Dependents().(*DepGraph).Queue()
	require.Len(t, queue, 4)
	assert.Equal(t, NewCellPos(1, 1), queue[0].Pos())
	for _, c := range queue {
		assert.True(t, c.IsPending())
	}

	assert.Equal(t, 1, sh.Recalc())
	assert.Equal(t, 1.0, valueAt(t, sh, "B2").Float())
	assert.Equal(t, 2.0, valueAt(t, sh, "C2").Float())
	assert.Equal(t, 3.0, valueAt(t, sh, "B3").Float())
	assert.Equal(t, 4.0, valueAt(t, sh, "C3").Float())
}

func TestSheet_ArrayMemberPointsAtCorner(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:B1"), MustParseExpr("=[5, 6]"), false))
	member := sh.CellAt(1, 0)
	corner := sh.CellAt(0, 0)
	assert.False(t, member.HasExpr())
	assert.Same(t, corner, member.ArrayCorner())
	bounds, ok := member.ArrayBounds()
	require.True(t, ok)
	assert.Equal(t, "A1:B1", bounds.String())

	assert.Equal(t, 6.0, member.Eval().Float())
	assert.Equal(t, 5.0, corner.Value().Float())
}

func TestSheet_ArrayFormulaMissingValuesAreNA(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:C1"), MustParseExpr("=[1, 2]"), true))
	sh.Recalc()
	assert.Equal(t, ErrorNA, valueAt(t, sh, "C1").ErrorKind())
}

func TestSheet_ArrayFormulaCannotSplitArray(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:B2"), MustParseExpr("=1"), true))

	err := sh.SetArrayFormula(mustRange(t, "B2:C3"), MustParseExpr("=2"), true)
	assert.ErrorIs(t, err, ErrArraySplit)

	// covering the whole array replaces it
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:C3"), MustParseExpr("=3"), true))
	corner, ok := sh.CellAt(1, 1).ArrayBounds()
	require.True(t, ok)
	assert.Equal(t, "A1:C3", corner.String())
}

func TestSheet_ArrayFormulaRejectsBadInput(t *testing.T) {
	sh := NewSheet("s")
	assert.ErrorIs(t, sh.SetArrayFormula(mustRange(t, "A1:B2"), nil, true), ErrNoExpression)
	bad := Range{Start: NewCellPos(2, 2), End: NewCellPos(0, 0)}
	assert.ErrorIs(t, sh.SetArrayFormula(bad, MustParseExpr("=1"), true), ErrInvalidRange)
}

func TestSheet_RecalcFollowsDependencies(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "2")
	setText(t, sh, "A2", "=A1*10")
	setText(t, sh, "A3", "=A2+A1")

	sh.Recalc()
	assert.Equal(t, 22.0, valueAt(t, sh, "A3").Float())

	setText(t, sh, "A1", "3")
	assert.True(t, sh.CellAt(0, 1).IsPending())
	assert.True(t, sh.CellAt(0, 2).IsPending())
	sh.Recalc()
	assert.Equal(t, 33.0, valueAt(t, sh, "A3").Float())
}

func TestSheet_ValueAtEvaluatesPending(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "=1+2")
	assert.Equal(t, 3.0, valueAt(t, sh, "A1").Float())
	assert.True(t, valueAt(t, sh, "Z9").IsEmpty())
}

func TestSheet_RemoveCellQueuesReaders(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "4")
	b1 := setText(t, sh, "B1", "=A1+1")
	sh.Recalc()
	require.Equal(t, 5.0, b1.Value().Float())

	a1 := sh.CellAt(0, 0)
	sh.RemoveCell(0, 0)
	assert.Nil(t, sh.CellAt(0, 0))
	assert.Nil(t, a1.Sheet())
	assert.True(t, b1.IsPending())
	sh.Recalc()
	assert.Equal(t, 1.0, b1.Value().Float())
	assert.Equal(t, 1, sh.Len())

	sh.RemoveCell(7, 7) // no cell: no-op
}

func TestSheet_RemovedFormulaLeavesGraph(t *testing.T) {
	sh := NewSheet("s")
	b1 := setText(t, sh, "B1", "=A1")
	deps := sh.Dependents().(*DepGraph)
	require.Len(t, deps.Readers(NewCellPos(0, 0)), 1)

	sh.RemoveCell(1, 0)
	assert.Empty(t, deps.Readers(NewCellPos(0, 0)))
	assert.False(t, deps.IsLinked(b1))
	assert.Empty(t, deps.Queue())
}

func TestSheet_CellsAreRowMajor(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "B2", "1")
	setText(t, sh, "A2", "1")
	setText(t, sh, "C1", "1")

	var got []string
	for _, c := range sh.Cells() {
		got = append(got, c.Pos().String())
	}
	assert.Equal(t, []string{"C1", "A2", "B2"}, got)

	used, ok := sh.UsedRange()
	require.True(t, ok)
	assert.Equal(t, "A1:C2", used.String())

	_, ok = NewSheet("empty").UsedRange()
	assert.False(t, ok)
}

func TestSheet_DirtyFlag(t *testing.T) {
	sh := NewSheet("s")
	assert.False(t, sh.IsDirty())
	setText(t, sh, "A1", "x")
	assert.True(t, sh.IsDirty())
	sh.SetDirty(false)
	assert.False(t, sh.IsDirty())
}

func TestSheet_InsertRowsRewritesFormulas(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "1")
	setText(t, sh, "A2", "2")
	setText(t, sh, "A3", "=SUM(A1:A2)")
	require.NoError(t, sh.Styles().SetStyle(mustRange(t, "A2"), boldRed()))
	sh.Recalc()

	require.NoError(t, sh.InsertRows(1, 2))

	assert.Equal(t, 1.0, valueAt(t, sh, "A1").Float())
	assert.True(t, valueAt(t, sh, "A2").IsEmpty())
	assert.Equal(t, 2.0, valueAt(t, sh, "A4").Float())
	sum := sh.CellAt(0, 4)
	require.NotNil(t, sum)
	assert.Equal(t, "=SUM(A1:A4)", sum.Expr().String())
	assert.Equal(t, NewCellPos(0, 4), sum.Pos())
	assert.Nil(t, sh.Styles().StyleAt(0, 1))
	assert.NotNil(t, sh.Styles().StyleAt(0, 3))

	sh.Recalc()
	assert.Equal(t, 3.0, sum.Value().Float())

	// the moved input still drives the formula
	setText(t, sh, "A4", "10")
	sh.Recalc()
	assert.Equal(t, 11.0, sum.Value().Float())
}

func TestSheet_DeleteRowsBreaksReferences(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "1")
	setText(t, sh, "A2", "2")
	setText(t, sh, "B5", "=A2*2")
	setText(t, sh, "C5", "=SUM(A1:A3)")
	sh.Recalc()

	require.NoError(t, sh.DeleteRows(1, 1))

	b4 := sh.CellAt(1, 3)
	require.NotNil(t, b4)
	assert.Equal(t, "=#REF!*2", b4.Expr().String())
	c4 := sh.CellAt(2, 3)
	require.NotNil(t, c4)
	assert.Equal(t, "=SUM(A1:A2)", c4.Expr().String())

	sh.Recalc()
	assert.Equal(t, ErrorRef, b4.Value().ErrorKind())
	assert.Equal(t, 1.0, c4.Value().Float())
	assert.Nil(t, sh.CellAt(1, 4))
}

func TestSheet_InsertColsRewritesFormulas(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "5")
	setText(t, sh, "B1", "=A1+$A$1")
	require.NoError(t, sh.InsertCols(0, 1))
	c := sh.CellAt(2, 0)
	require.NotNil(t, c)
	assert.Equal(t, "=B1+$B$1", c.Expr().String())
	sh.Recalc()
	assert.Equal(t, 10.0, c.Value().Float())

	require.NoError(t, sh.DeleteCols(0, 1))
	assert.Equal(t, "=A1+$A$1", sh.CellAt(1, 0).Expr().String())
}

func TestSheet_ShiftCannotSplitArray(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A2:B3"), MustParseExpr("=1"), true))

	assert.ErrorIs(t, sh.InsertRows(2, 1), ErrArraySplit)
	assert.ErrorIs(t, sh.DeleteRows(2, 1), ErrArraySplit)
	assert.ErrorIs(t, sh.InsertCols(1, 1), ErrArraySplit)

	// whole array moves
	require.NoError(t, sh.InsertRows(0, 1))
	b, ok := sh.CellAt(1, 3).ArrayBounds()
	require.True(t, ok)
	assert.Equal(t, "A3:B4", b.String())

	// whole array deleted
	require.NoError(t, sh.DeleteRows(2, 2))
	assert.Zero(t, sh.Len())
}

func TestSheet_ShiftRejectsZero(t *testing.T) {
	sh := NewSheet("s")
	assert.ErrorIs(t, sh.InsertRows(0, 0), ErrInvalidRange)
	assert.ErrorIs(t, sh.DeleteCols(-1, 1), ErrInvalidRange)
}

func TestSheet_EffectiveStyleAppliesFirstMatchingRule(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "500")
	setText(t, sh, "A2", "50")

	hot := NewStyleBuilder().SetBackColor(NewColor(0xff, 0, 0)).Build()
	rule, err := NewRule(CondGreater, hot, MustParseExpr("100"))
	require.NoError(t, err)
	conds := NewConditions()
	require.NoError(t, conds.Append(rule))
	require.NoError(t, sh.Styles().SetStyle(mustRange(t, "A1:A2"), NewStyleBuilder().SetConditions(conds).Build()))

	st := sh.EffectiveStyle(0, 0)
	bg, _ := st.BackColor()
	assert.Equal(t, NewColor(0xff, 0, 0), bg)
	pattern, _ := st.Pattern()
	assert.Equal(t, 1, pattern)

	plain := sh.EffectiveStyle(0, 1)
	pattern, _ = plain.Pattern()
	assert.Zero(t, pattern)
	assert.Same(t, sh.Styles().StyleFor(0, 1), plain)
}

func TestSheet_LoggerOption(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	sh := NewSheet("report", WithLogger(logger))
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:B1"), MustParseExpr("=1"), true))
	assert.ErrorIs(t, sh.CellAt(1, 0).SetValue(NewFloat(1), nil), ErrPartialArray)

	out := buf.String()
	assert.Contains(t, out, "array formula installed")
	assert.Contains(t, out, "sheet=report")
	assert.Contains(t, out, "level=warning")
}

func TestSheet_ShiftKeepsPendingFormulasQueued(t *testing.T) {
	sh := NewSheet("s")
	a1 := setText(t, sh, "A1", "=1+1")

	require.NoError(t, sh.InsertRows(5, 1))
	assert.True(t, a1.IsPending())
	assert.Equal(t, 1, sh.Recalc())
	assert.Equal(t, 2.0, a1.Value().Float())
}

func TestSheet_ShiftKeepsPendingArrayQueued(t *testing.T) {
	sh := NewSheet("s")
	require.NoError(t, sh.SetArrayFormula(mustRange(t, "A1:B2"), MustParseExpr("=[[1, 2], [3, 4]]"), true))

	require.NoError(t, sh.InsertCols(5, 1))
	queue := sh.Dependents().(*DepGraph).Queue()
	require.Len(t, queue, 4)
	assert.Same(t, sh.CellAt(0, 0), queue[0])

	assert.Equal(t, 1, sh.Recalc())
	assert.Equal(t, 4.0, sh.CellAt(1, 1).Value().Float())
	assert.Equal(t, 2.0, sh.CellAt(1, 0).Value().Float())
}

func TestSheet_DeleteColsRequeuesMovedAndUntouchedFormulas(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "C1", "5")
	a1 := setText(t, sh, "A1", "=C1*2")
	e1 := setText(t, sh, "E1", "=1+1")

	require.NoError(t, sh.DeleteCols(1, 1))
	assert.Equal(t, "=B1*2", a1.Expr().String())
	assert.Same(t, e1, sh.CellAt(3, 0))

	assert.Equal(t, 2, sh.Recalc())
	assert.Equal(t, 10.0, a1.Value().Float())
	assert.Equal(t, 2.0, e1.Value().Float())
	assert.Empty(t, sh.Dependents().(*DepGraph).Queue())
}
