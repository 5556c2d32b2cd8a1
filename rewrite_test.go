package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefShift_Rewrite(t *testing.T) {
	tests := []struct {
		name  string
		shift RefShift
		in    string
		want  string // empty: unchanged
	}{
		{"insert rows below", RefShift{Rows: true, At: 5, N: 2}, "A1+B2", ""},
		{"insert rows above", RefShift{Rows: true, At: 0, N: 2}, "A1+B2", "A3+B4"},
		{"keeps absolute markers", RefShift{Rows: true, At: 0, N: 1}, "$A$1+A$2+$B3", "$A$2+A$3+$B4"},
		{"range grows", RefShift{Rows: true, At: 2, N: 3}, "SUM(A1:A5)", "SUM(A1:A8)"},
		{"insert cols", RefShift{At: 1, N: 1}, "A1+B1+C1", "A1+C1+D1"},
		{"delete row referenced", RefShift{Rows: true, At: 1, N: -1}, "A2*2", "#REF!*2"},
		{"delete rows shrink range", RefShift{Rows: true, At: 1, N: -2}, "SUM(A1:A5)", "SUM(A1:A3)"},
		{"delete range head", RefShift{Rows: true, At: 0, N: -2}, "SUM(A1:A5)", "SUM(A1:A3)"},
		{"delete whole range", RefShift{Rows: true, At: 0, N: -5}, "SUM(A1:A5)", "SUM(#REF!)"},
		{"delete cols move refs", RefShift{At: 0, N: -1}, "C1", "B1"},
		{"strings untouched", RefShift{Rows: true, At: 0, N: 1}, `CONCAT("A1", A1)`, `CONCAT("A1", A2)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shift.Rewrite(MustParseExpr(tt.in), CellPos{})
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Text())
		})
	}
}

func TestRefShift_RewrittenRefsAreTracked(t *testing.T) {
	got := RefShift{Rows: true, At: 0, N: 1}.Rewrite(MustParseExpr("SUM(A1:B2)"), CellPos{})
	require.NotNil(t, got)
	refs := got.Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "A2:B3", refs[0].String())
}

func TestRefShift_ShiftPos(t *testing.T) {
	ins := RefShift{Rows: true, At: 2, N: 3}
	p, ok := ins.ShiftPos(NewCellPos(4, 1))
	assert.True(t, ok)
	assert.Equal(t, NewCellPos(4, 1), p)
	p, ok = ins.ShiftPos(NewCellPos(4, 2))
	assert.True(t, ok)
	assert.Equal(t, NewCellPos(4, 5), p)

	del := RefShift{At: 1, N: -2}
	_, ok = del.ShiftPos(NewCellPos(2, 0))
	assert.False(t, ok)
	p, ok = del.ShiftPos(NewCellPos(3, 0))
	assert.True(t, ok)
	assert.Equal(t, NewCellPos(1, 0), p)
}

func TestExprRewriterFunc(t *testing.T) {
	calls := 0
	rw := ExprRewriterFunc(func(e *Expr, pos CellPos) *Expr {
		calls++
		return MustParseExpr("42")
	})
	sh := NewSheet("s")
	c := sh.FetchCell(0, 0)
	require.NoError(t, c.SetExpr(MustParseExpr("1"), nil))
	c.Relocate(rw)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "=42", c.Expr().String())
	assert.Equal(t, 42.0, c.Eval().Float())
}
