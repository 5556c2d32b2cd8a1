package cellstyle

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// ValueType is the type tag of a Value.
type ValueType int

const (
	ValueEmpty ValueType = iota
	ValueBool
	ValueFloat
	ValueString
	ValueError
	ValueArray
)

// String returns a human-readable name for the ValueType.
func (t ValueType) String() string {
	switch t {
	case ValueEmpty:
		return "Empty"
	case ValueBool:
		return "Bool"
	case ValueFloat:
		return "Float"
	case ValueString:
		return "String"
	case ValueError:
		return "Error"
	case ValueArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// ErrorKind identifies a spreadsheet error value.
type ErrorKind int

const (
	ErrorNull ErrorKind = iota
	ErrorDiv0
	ErrorValue
	ErrorRef
	ErrorName
	ErrorNum
	ErrorNA
	// ErrorRecalc is the placeholder held by a formula cell until it is
	// evaluated.
	ErrorRecalc
)

var errorNames = [...]string{
	ErrorNull:   "#NULL!",
	ErrorDiv0:   "#DIV/0!",
	ErrorValue:  "#VALUE!",
	ErrorRef:    "#REF!",
	ErrorName:   "#NAME?",
	ErrorNum:    "#NUM!",
	ErrorNA:     "#N/A",
	ErrorRecalc: "#RECALC!",
}

// String returns the spreadsheet spelling of the error, e.g. "#DIV/0!".
func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorNames) {
		return errorNames[k]
	}
	return "#UNKNOWN!"
}

// ParseErrorKind maps "#DIV/0!" style text back to an ErrorKind.
func ParseErrorKind(s string) (ErrorKind, bool) {
	for k, name := range errorNames {
		if strings.EqualFold(s, name) {
			return ErrorKind(k), true
		}
	}
	return 0, false
}

// Value is an immutable spreadsheet value. The zero Value is Empty.
type Value struct {
	typ  ValueType
	b    bool
	f    float64
	s    string
	ek   ErrorKind
	rows [][]Value
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// NewBool creates a boolean value.
func NewBool(b bool) Value { return Value{typ: ValueBool, b: b} }

// NewFloat creates a numeric value.
func NewFloat(f float64) Value { return Value{typ: ValueFloat, f: f} }

// NewString creates a string value.
func NewString(s string) Value { return Value{typ: ValueString, s: s} }

// NewError creates an error value of the given kind.
func NewError(k ErrorKind) Value { return Value{typ: ValueError, ek: k} }

// NewArray creates an array value from rows of values.
func NewArray(rows [][]Value) Value { return Value{typ: ValueArray, rows: rows} }

// Type returns the value's type tag.
func (v Value) Type() ValueType { return v.typ }

// IsEmpty reports whether v is the empty value.
func (v Value) IsEmpty() bool { return v.typ == ValueEmpty }

// IsError reports whether v is an error value.
func (v Value) IsError() bool { return v.typ == ValueError }

// IsString reports whether v is string-typed.
func (v Value) IsString() bool { return v.typ == ValueString }

// IsNumber reports whether v is numeric; booleans count as numbers.
func (v Value) IsNumber() bool { return v.typ == ValueFloat || v.typ == ValueBool }

// Float returns the numeric interpretation of v.
func (v Value) Float() float64 {
	switch v.typ {
	case ValueFloat:
		return v.f
	case ValueBool:
		if v.b {
			return 1
		}
		return 0
	case ValueString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0
		}
		return f
	case ValueArray:
		return v.At(0, 0).Float()
	}
	return 0
}

// Bool returns the truth value of v. Errors and unparsable strings are false.
func (v Value) Bool() bool {
	switch v.typ {
	case ValueBool:
		return v.b
	case ValueFloat:
		return v.f != 0
	case ValueString:
		return strings.EqualFold(v.s, "TRUE")
	case ValueArray:
		return v.At(0, 0).Bool()
	}
	return false
}

// Str returns the raw string payload of a string value.
func (v Value) Str() string { return v.s }

// ErrorKind returns the kind of an error value.
func (v Value) ErrorKind() ErrorKind { return v.ek }

// Size returns the array dimensions; scalars are 1x1.
func (v Value) Size() (cols, rows int) {
	if v.typ != ValueArray {
		return 1, 1
	}
	rows = len(v.rows)
	for _, r := range v.rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return cols, rows
}

// At returns the element at (x, y) of an array. A scalar returns itself for
// every position; positions outside an array are #N/A.
func (v Value) At(x, y int) Value {
	if v.typ != ValueArray {
		return v
	}
	if y < 0 || y >= len(v.rows) || x < 0 || x >= len(v.rows[y]) {
		return NewError(ErrorNA)
	}
	return v.rows[y][x]
}

// String renders the value without any number format.
func (v Value) String() string {
	switch v.typ {
	case ValueBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'g', 15, 64)
	case ValueString:
		return v.s
	case ValueError:
		return v.ek.String()
	case ValueArray:
		return v.At(0, 0).String()
	}
	return ""
}

// Equal reports whether two values are identical in type and content.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case ValueBool:
		return v.b == o.b
	case ValueFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case ValueString:
		return v.s == o.s
	case ValueError:
		return v.ek == o.ek
	case ValueArray:
		if len(v.rows) != len(o.rows) {
			return false
		}
		for y := range v.rows {
			if len(v.rows[y]) != len(o.rows[y]) {
				return false
			}
			for x := range v.rows[y] {
				if !v.rows[y][x].Equal(o.rows[y][x]) {
					return false
				}
			}
		}
	}
	return true
}

// Ordering is the result of a three-way comparison.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	TypeMismatch
)

// String returns a human-readable name for the Ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "TypeMismatch"
	}
}

// Compare orders a against b. An Empty operand compares as the zero value of
// the other operand's type, so blank cells never cause a failure. Numbers sort
// before strings, strings before booleans. Errors never compare.
func Compare(a, b Value, caseSensitive bool) Ordering {
	if a.typ == ValueArray {
		a = a.At(0, 0)
	}
	if b.typ == ValueArray {
		b = b.At(0, 0)
	}
	if a.typ == ValueError || b.typ == ValueError {
		return TypeMismatch
	}
	if a.typ == ValueEmpty {
		a = zeroOf(b.typ)
	}
	if b.typ == ValueEmpty {
		b = zeroOf(a.typ)
	}

	ra, rb := typeRank(a.typ), typeRank(b.typ)
	if ra != rb {
		if ra < rb {
			return Less
		}
		return Greater
	}

	switch a.typ {
	case ValueEmpty:
		return Equal
	case ValueBool:
		return compareFloat(a.Float(), b.Float())
	case ValueFloat:
		return compareFloat(a.f, b.f)
	case ValueString:
		sa, sb := a.s, b.s
		if !caseSensitive {
			sa, sb = foldString(sa), foldString(sb)
		}
		switch {
		case sa < sb:
			return Less
		case sa > sb:
			return Greater
		}
		return Equal
	}
	return TypeMismatch
}

// foldString applies Unicode case folding. Casers keep state, so one is
// created per call.
func foldString(s string) string {
	return cases.Fold().String(s)
}

func zeroOf(t ValueType) Value {
	switch t {
	case ValueBool:
		return NewBool(false)
	case ValueFloat:
		return NewFloat(0)
	case ValueString:
		return NewString("")
	}
	return Value{}
}

func typeRank(t ValueType) int {
	switch t {
	case ValueFloat:
		return 1
	case ValueString:
		return 2
	case ValueBool:
		return 3
	}
	return 0
}

func compareFloat(a, b float64) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	}
	return Equal
}

// valueFromGo converts an expression result into a Value.
func valueFromGo(v any) Value {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Value:
		return x
	case bool:
		return NewBool(x)
	case string:
		return NewString(x)
	case float64:
		return floatResult(x)
	case float32:
		return floatResult(float64(x))
	case int:
		return NewFloat(float64(x))
	case int64:
		return NewFloat(float64(x))
	case int32:
		return NewFloat(float64(x))
	case uint:
		return NewFloat(float64(x))
	case uint64:
		return NewFloat(float64(x))
	case []any:
		return arrayFromGo(x)
	}
	return NewError(ErrorValue)
}

func floatResult(f float64) Value {
	switch {
	case math.IsInf(f, 0):
		return NewError(ErrorDiv0)
	case math.IsNaN(f):
		return NewError(ErrorNum)
	}
	return NewFloat(f)
}

// arrayFromGo accepts a flat list (a single row) or a list of lists.
func arrayFromGo(items []any) Value {
	if len(items) == 0 {
		return NewError(ErrorValue)
	}
	if _, nested := items[0].([]any); !nested {
		row := make([]Value, len(items))
		for i, it := range items {
			row[i] = valueFromGo(it)
		}
		return NewArray([][]Value{row})
	}
	rows := make([][]Value, 0, len(items))
	for _, it := range items {
		inner, ok := it.([]any)
		if !ok {
			inner = []any{it}
		}
		row := make([]Value, len(inner))
		for i, e := range inner {
			row[i] = valueFromGo(e)
		}
		rows = append(rows, row)
	}
	return NewArray(rows)
}

// goFromValue converts a Value into the representation handed to expressions.
func goFromValue(v Value) any {
	switch v.typ {
	case ValueBool:
		return v.b
	case ValueFloat:
		return v.f
	case ValueString:
		return v.s
	case ValueArray:
		return goFromValue(v.At(0, 0))
	}
	return nil
}
