package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromExcelFormula(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=SUM(A1:B2)*2", "SUM(A1:B2) * 2"},
		{`=IF(A1="x",1,0)`, `IF(A1 == "x", 1, 0)`},
		{"=A1<>B1", "A1 != B1"},
		{"=2^3", "2 ** 3"},
		{`=A1&"!"`, `A1 + "!"`},
		{"=50%", "50 / 100"},
		{"=-A1", "-A1"},
		{"=Sheet1!A1+1", "A1 + 1"},
		{"=sum(A1)", "SUM(A1)"},
		{"=(A1+A2)/2", "(A1 + A2) / 2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FromExcelFormula(tt.in))
		})
	}
}

func TestToExcelFormula(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SUM(A1:B2) * 2", "SUM(A1:B2) * 2"},
		{`IF(A1 == "x", true, 1 ** 2)`, `IF(A1 = "x", TRUE, 1 ^ 2)`},
		{"A1 != B1", "A1 <> B1"},
		{`"say \"hi\""`, `"say ""hi"""`},
		{`"a==b"`, `"a==b"`},
		{"truehood + false", "truehood + FALSE"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToExcelFormula(tt.in))
		})
	}
}

func TestFromExcelFormula_Evaluates(t *testing.T) {
	sh := NewSheet("s")
	setText(t, sh, "A1", "3")

	c := sh.FetchCell(2, 0)
	assert.NoError(t, c.SetExpr(MustParseExpr(FromExcelFormula(`=IF(A1>1,"big"&"!","small")`)), nil))
	assert.Equal(t, "big!", c.Eval().Str())

	assert.NoError(t, c.SetExpr(MustParseExpr(FromExcelFormula("=A1^2+10%")), nil))
	assert.InDelta(t, 9.1, c.Eval().Float(), 1e-9)
}
