package cellstyle

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationStyle is how a failed validation is reported to the user.
type ValidationStyle int

const (
	ValidationStop ValidationStyle = iota
	ValidationWarning
	ValidationInfo
)

// ValidationType restricts what a cell may hold.
type ValidationType int

const (
	ValidateAny ValidationType = iota
	ValidateWholeNumber
	ValidateDecimal
	ValidateList
	ValidateDate
	ValidateTime
	ValidateTextLength
	ValidateCustom
)

// ValidationOp compares the checked quantity against the operands.
type ValidationOp int

const (
	ValidationBetween ValidationOp = iota
	ValidationNotBetween
	ValidationEqual
	ValidationNotEqual
	ValidationGreater
	ValidationLess
	ValidationGreaterEqual
	ValidationLessEqual
)

// Validation is a data validation rule attached to a style.
type Validation struct {
	Style      ValidationStyle
	Type       ValidationType
	Op         ValidationOp
	Title      string
	Message    string
	Exprs      [2]*Expr
	AllowBlank bool
}

// Equal compares every field; operands compare by formula text.
func (v *Validation) Equal(o *Validation) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.Style == o.Style && v.Type == o.Type && v.Op == o.Op &&
		v.Title == o.Title && v.Message == o.Message && v.AllowBlank == o.AllowBlank &&
		v.Exprs[0].Equal(o.Exprs[0]) && v.Exprs[1].Equal(o.Exprs[1])
}

func (v *Validation) hash() uint32 {
	if v == nil {
		return 0
	}
	h := uint32(v.Type)<<8 ^ uint32(v.Op)<<4 ^ uint32(v.Style) ^ hashString(v.Title) ^ hashString(v.Message)
	for _, e := range v.Exprs {
		if e != nil {
			h = h<<5 ^ h>>27 ^ hashString(e.text)
		}
	}
	return h
}

// Check tests the value at pos. It returns false and a reason when the
// value is not allowed.
func (v *Validation) Check(sh *Sheet, pos CellPos) (bool, string) {
	val := sh.valueAt(pos)
	if val.IsEmpty() || (val.IsString() && val.Str() == "") {
		if v.AllowBlank {
			return true, ""
		}
		return false, "value must not be blank"
	}
	ev := sh.evaluator()
	operand := func(i int) Value {
		return ev.Eval(v.Exprs[i], sh, pos, 0)
	}

	var x float64
	switch v.Type {
	case ValidateAny:
		return true, ""
	case ValidateCustom:
		if v.Exprs[0] == nil {
			return true, ""
		}
		res := operand(0)
		if res.IsError() || !res.Bool() {
			return false, fmt.Sprintf("custom rule %s not satisfied", v.Exprs[0])
		}
		return true, ""
	case ValidateList:
		if v.Exprs[0] == nil {
			return true, ""
		}
		list := ev.Eval(v.Exprs[0], sh, pos, EvalPermitNonScalar)
		if listContains(list, val) {
			return true, ""
		}
		return false, fmt.Sprintf("%s is not in the list", val)
	case ValidateTextLength:
		x = float64(len([]rune(val.String())))
	case ValidateWholeNumber:
		if !val.IsNumber() || val.Float() != float64(int64(val.Float())) {
			return false, fmt.Sprintf("%s is not a whole number", val)
		}
		x = val.Float()
	case ValidateDecimal, ValidateDate, ValidateTime:
		if !val.IsNumber() {
			return false, fmt.Sprintf("%s is not a number", val)
		}
		x = val.Float()
	}

	if v.Exprs[0] == nil {
		return true, ""
	}
	a := operand(0)
	if a.IsError() {
		return false, fmt.Sprintf("bound %s is %s", v.Exprs[0], a)
	}
	lo := a.Float()
	var hi float64
	if v.Op == ValidationBetween || v.Op == ValidationNotBetween {
		if v.Exprs[1] == nil {
			return true, ""
		}
		b := operand(1)
		if b.IsError() {
			return false, fmt.Sprintf("bound %s is %s", v.Exprs[1], b)
		}
		hi = b.Float()
	}

	ok := false
	switch v.Op {
	case ValidationBetween:
		ok = x >= lo && x <= hi
	case ValidationNotBetween:
		ok = x < lo || x > hi
	case ValidationEqual:
		ok = x == lo
	case ValidationNotEqual:
		ok = x != lo
	case ValidationGreater:
		ok = x > lo
	case ValidationLess:
		ok = x < lo
	case ValidationGreaterEqual:
		ok = x >= lo
	case ValidationLessEqual:
		ok = x <= lo
	}
	if !ok {
		return false, fmt.Sprintf("%s fails %s", val, v.describeBounds())
	}
	return true, ""
}

func (v *Validation) describeBounds() string {
	names := [...]string{"between", "not between", "=", "<>", ">", "<", ">=", "<="}
	op := "?"
	if int(v.Op) < len(names) {
		op = names[v.Op]
	}
	var ops []string
	for _, e := range v.Exprs {
		if e != nil {
			ops = append(ops, e.Text())
		}
	}
	return op + " " + strings.Join(ops, " and ")
}

func listContains(list, val Value) bool {
	cols, rows := list.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			item := list.At(x, y)
			if item.IsString() && strings.Contains(item.Str(), ",") {
				for _, part := range strings.Split(item.Str(), ",") {
					if Compare(NewString(strings.TrimSpace(part)), val, false) == Equal {
						return true
					}
				}
				continue
			}
			if Compare(item, val, false) == Equal {
				return true
			}
		}
	}
	return false
}

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the cell breaks a stop rule or holds a broken formula
	SeverityWarning                 // the cell breaks a warning rule
	SeverityInfo
)

// ValidationIssue is a single problem found by Sheet.Validate.
type ValidationIssue struct {
	Severity Severity
	Pos      CellPos
	Message  string
}

// String formats the issue as "[ERROR] A2: message".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	switch v.Severity {
	case SeverityWarning:
		sev = "WARN"
	case SeverityInfo:
		sev = "INFO"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Pos, v.Message)
}

// Validate checks every cell for formulas that do not compile and for
// values rejected by the data validation of their style. Issues are sorted
// by position.
func (s *Sheet) Validate() []ValidationIssue {
	var issues []ValidationIssue
	for _, c := range s.Cells() {
		issues = append(issues, s.validateExpression(c)...)
		issues = append(issues, s.validateData(c)...)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].Pos, issues[j].Pos
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return issues
}

// validateExpression reports formulas that fail to compile.
func (s *Sheet) validateExpression(c *Cell) []ValidationIssue {
	if c.expr == nil {
		return nil
	}
	checker, ok := s.evaluator().(interface{ Check(*Expr) error })
	if !ok {
		return nil
	}
	if err := checker.Check(c.expr); err != nil {
		return []ValidationIssue{{
			Severity: SeverityError,
			Pos:      c.pos,
			Message:  fmt.Sprintf("invalid formula %s: %v", c.expr, err),
		}}
	}
	return nil
}

// validateData applies the validation of the cell's effective style.
func (s *Sheet) validateData(c *Cell) []ValidationIssue {
	val, ok := s.Styles().StyleFor(c.pos.Col, c.pos.Row).Validation()
	if !ok || val == nil {
		return nil
	}
	if pass, reason := val.Check(s, c.pos); !pass {
		sev := SeverityError
		switch val.Style {
		case ValidationWarning:
			sev = SeverityWarning
		case ValidationInfo:
			sev = SeverityInfo
		}
		msg := reason
		if val.Message != "" {
			msg = val.Message + ": " + reason
		}
		return []ValidationIssue{{Severity: sev, Pos: c.pos, Message: msg}}
	}
	return nil
}
