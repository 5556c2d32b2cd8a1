package cellstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name          string
		a, b          Value
		caseSensitive bool
		want          Ordering
	}{
		{"numbers", NewFloat(1), NewFloat(2), false, Less},
		{"equal numbers", NewFloat(2), NewFloat(2), false, Equal},
		{"folded strings", NewString("a"), NewString("B"), false, Less},
		{"case sensitive", NewString("a"), NewString("B"), true, Greater},
		{"fold equal", NewString("Äpfel"), NewString("äPFEL"), false, Equal},
		{"empty as zero", Empty(), NewFloat(0), false, Equal},
		{"empty below positive", Empty(), NewFloat(3), false, Less},
		{"empty as empty string", NewString(""), Empty(), false, Equal},
		{"empty below text", Empty(), NewString("x"), false, Less},
		{"empty as false", Empty(), NewBool(false), false, Equal},
		{"both empty", Empty(), Empty(), false, Equal},
		{"number before string", NewFloat(100), NewString("1"), false, Less},
		{"string before bool", NewString("z"), NewBool(false), false, Less},
		{"bools", NewBool(true), NewBool(false), false, Greater},
		{"error left", NewError(ErrorNA), NewFloat(1), false, TypeMismatch},
		{"error right", NewFloat(1), NewError(ErrorDiv0), false, TypeMismatch},
		{"array uses corner", NewArray([][]Value{{NewFloat(5), NewFloat(9)}}), NewFloat(5), false, Equal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b, tt.caseSensitive))
		})
	}
}

func TestValue_Conversions(t *testing.T) {
	assert.Equal(t, 1.0, NewBool(true).Float())
	assert.Equal(t, 2.5, NewString(" 2.5 ").Float())
	assert.Zero(t, NewString("abc").Float())
	assert.Zero(t, NewError(ErrorRef).Float())

	assert.True(t, NewString("true").Bool())
	assert.True(t, NewFloat(-1).Bool())
	assert.False(t, NewError(ErrorNA).Bool())

	assert.True(t, NewBool(false).IsNumber())
	assert.False(t, NewString("1").IsNumber())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, "FALSE", NewBool(false).String())
	assert.Equal(t, "0.1", NewFloat(0.1).String())
	assert.Equal(t, "#VALUE!", NewError(ErrorValue).String())
	assert.Equal(t, "x", NewArray([][]Value{{NewString("x")}}).String())
}

func TestValue_Array(t *testing.T) {
	arr := NewArray([][]Value{
		{NewFloat(1), NewFloat(2), NewFloat(3)},
		{NewFloat(4)},
	})
	cols, rows := arr.Size()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2.0, arr.At(1, 0).Float())
	assert.Equal(t, ErrorNA, arr.At(1, 1).ErrorKind())
	assert.Equal(t, ErrorNA, arr.At(-1, 0).ErrorKind())

	scalar := NewFloat(7)
	cols, rows = scalar.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
	assert.True(t, scalar.At(4, 4).Equal(scalar))
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Empty().Equal(Value{}))
	assert.False(t, NewFloat(0).Equal(Empty()))
	assert.False(t, NewString("a").Equal(NewString("A")))
	assert.True(t, NewError(ErrorNum).Equal(NewError(ErrorNum)))
	assert.False(t, NewArray([][]Value{{NewFloat(1)}}).Equal(NewArray([][]Value{{NewFloat(1), NewFloat(2)}})))
}

func TestParseErrorKind(t *testing.T) {
	k, ok := ParseErrorKind("#n/a")
	assert.True(t, ok)
	assert.Equal(t, ErrorNA, k)
	assert.Equal(t, "#N/A", k.String())

	_, ok = ParseErrorKind("#WAT!")
	assert.False(t, ok)
	assert.Equal(t, "#UNKNOWN!", ErrorKind(99).String())
}

func TestValueFromGo(t *testing.T) {
	assert.True(t, valueFromGo(nil).IsEmpty())
	assert.True(t, valueFromGo(3).Equal(NewFloat(3)))
	assert.Equal(t, ErrorDiv0, valueFromGo(1.0/zero()).ErrorKind())
	assert.Equal(t, ErrorValue, valueFromGo(struct{}{}).ErrorKind())
	assert.Equal(t, ErrorValue, valueFromGo([]any{}).ErrorKind())

	row := valueFromGo([]any{1.0, "a"})
	cols, rows := row.Size()
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, rows)
}

func zero() float64 { return 0 }
