package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr("  =SUM(A1:B2) + $C$3 * c4 ")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A1:B2) + $C$3 * c4", e.Text())
	assert.Equal(t, "=SUM(A1:B2) + $C$3 * c4", e.String())

	refs := e.Refs()
	require.Len(t, refs, 3)
	assert.Equal(t, "A1:B2", refs[0].String())
	assert.Equal(t, "C3", refs[1].String())
	assert.Equal(t, "C4", refs[2].String())
}

func TestParseExpr_Empty(t *testing.T) {
	_, err := ParseExpr("=")
	assert.ErrorIs(t, err, ErrNoExpression)
	_, err = ParseExpr("   ")
	assert.ErrorIs(t, err, ErrNoExpression)
	assert.Panics(t, func() { MustParseExpr("") })
}

func TestParseExpr_IgnoresRefsInStringsAndNames(t *testing.T) {
	e := MustParseExpr(`CONCAT("A1", ab12cd, x.A1, UPPER("b2"), AB1C)`)
	assert.Empty(t, e.Refs())
}

func TestParseExpr_DeduplicatesRefs(t *testing.T) {
	e := MustParseExpr("A1 + A1 + $A$1")
	assert.Len(t, e.Refs(), 1)
}

func TestExpr_Equal(t *testing.T) {
	assert.True(t, MustParseExpr("=A1+1").Equal(MustParseExpr("A1+1")))
	assert.False(t, MustParseExpr("A1+1").Equal(MustParseExpr("A1 + 1")))
	var nilExpr *Expr
	assert.True(t, nilExpr.Equal(nil))
	assert.False(t, nilExpr.Equal(MustParseExpr("1")))
}

func evalAt(t *testing.T, sh *Sheet, formula string) Value {
	t.Helper()
	return NewExprEvaluator().Eval(MustParseExpr(formula), sh, NewCellPos(0, 9), 0)
}

func TestExprEvaluator_Functions(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "1")
	setText(t, sh, "A2", "2")
	setText(t, sh, "A3", "3")
	setText(t, sh, "B1", "text")
	setText(t, sh, "B2", "TRUE")

	tests := []struct {
		formula string
		want    Value
	}{
		{"SUM(A1:A3)", NewFloat(6)},
		{"SUM(A1:B3)", NewFloat(6)},
		{"AVERAGE(A1:A3)", NewFloat(2)},
		{"MIN(A1:A3, -4)", NewFloat(-4)},
		{"MAX(A1:A3)", NewFloat(3)},
		{"COUNT(A1:B3)", NewFloat(3)},
		{"COUNTA(A1:B3)", NewFloat(5)},
		{"IF(A1 > 0, \"pos\", \"neg\")", NewString("pos")},
		{"IF(A1 > 5, 1)", NewBool(false)},
		{"AND(A1 > 0, B2)", NewBool(true)},
		{"OR(A1 > 5, A2 > 5)", NewBool(false)},
		{"NOT(A1 > 5)", NewBool(true)},
		{"ABS(-2.5)", NewFloat(2.5)},
		{"ROUND(3.14159, 2)", NewFloat(3.14)},
		{"LEN(B1)", NewFloat(4)},
		{"UPPER(B1)", NewString("TEXT")},
		{"LOWER(\"MiXeD\")", NewString("mixed")},
		{"CONCAT(B1, \"-\", A1)", NewString("text-1")},
		{"A1 + Z99", NewFloat(1)},
		{"_row", NewFloat(10)},
		{"_col", NewFloat(0)},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got := evalAt(t, sh, tt.formula)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestExprEvaluator_Errors(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "#N/A")
	setText(t, sh, "A2", "0")
	setText(t, sh, "A3", "word")

	tests := []struct {
		formula string
		want    ErrorKind
	}{
		{"A1 + 1", ErrorNA},
		{"SUM(A1:A3)", ErrorNA},
		{"1 / A2", ErrorDiv0},
		{"AVERAGE(A3)", ErrorDiv0},
		{"A3 * 2", ErrorValue},
		{"1 +", ErrorName},
		{"#REF! + 1", ErrorRef},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got := evalAt(t, sh, tt.formula)
			require.True(t, got.IsError(), "got %s", got)
			assert.Equal(t, tt.want, got.ErrorKind())
		})
	}
}

func TestExprEvaluator_NonScalar(t *testing.T) {
	sh := NewSheet("s")
	ev := NewExprEvaluator()
	e := MustParseExpr("[[1, 2], [3, 4]]")

	scalar := ev.Eval(e, sh, NewCellPos(0, 0), 0)
	assert.Equal(t, ValueFloat, scalar.Type())
	assert.Equal(t, 1.0, scalar.Float())

	arr := ev.Eval(e, sh, NewCellPos(0, 0), EvalPermitNonScalar)
	require.Equal(t, ValueArray, arr.Type())
	cols, rows := arr.Size()
	assert.Equal(t, 2, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3.0, arr.At(0, 1).Float())
}

func TestExprEvaluator_Check(t *testing.T) {
	ev := NewExprEvaluator()
	assert.NoError(t, ev.Check(MustParseExpr("SUM(A1:A2) * 2")))
	assert.Error(t, ev.Check(MustParseExpr("SUM(")))
	assert.Error(t, ev.Check(MustParseExpr("#REF!")))
}

func TestExprEvaluator_CachesPrograms(t *testing.T) {
	ev := NewExprEvaluator()
	sh := NewSheet("s")
	e := MustParseExpr("1 + 1")
	ev.Eval(e, sh, NewCellPos(0, 0), 0)
	_, ok := ev.cache.Load(e.src)
	assert.True(t, ok)
}
