package cellstyle

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// CondOp is the operator of a conditional formatting rule.
type CondOp int

const (
	CondEqual CondOp = iota
	CondNotEqual
	CondGreater
	CondLess
	CondGreaterEqual
	CondLessEqual
	CondBetween
	CondNotBetween

	CondContains
	CondNotContains
	CondBeginsWith
	CondNotBeginsWith
	CondEndsWith
	CondNotEndsWith
	CondContainsBlanks
	CondNotContainsBlanks

	CondContainsErrors
	CondNotContainsErrors

	// CondCustom matches when its operand evaluates to true.
	CondCustom
)

var condOpNames = [...]string{
	"equal", "not-equal", "greater", "less", "greater-equal", "less-equal",
	"between", "not-between",
	"contains", "not-contains", "begins-with", "not-begins-with",
	"ends-with", "not-ends-with", "contains-blanks", "not-contains-blanks",
	"contains-errors", "not-contains-errors",
	"custom",
}

// String returns a human-readable name for the CondOp.
func (op CondOp) String() string {
	if op >= 0 && int(op) < len(condOpNames) {
		return condOpNames[op]
	}
	return "unknown"
}

// Operands is the number of operand expressions op requires.
func (op CondOp) Operands() int {
	if op == CondBetween || op == CondNotBetween {
		return 2
	}
	return 1
}

func (op CondOp) isComparison() bool { return op <= CondNotBetween }
func (op CondOp) isString() bool     { return op >= CondContains && op <= CondNotContainsBlanks }
func (op CondOp) isError() bool      { return op == CondContainsErrors || op == CondNotContainsErrors }

// Rule is one conditional formatting rule: when the predicate holds for a
// cell, the overlay style is merged over the cell's style.
type Rule struct {
	op      CondOp
	exprs   []*Expr
	overlay *Style
}

// NewRule validates the operand count against the operator. A nil overlay
// is an empty style.
func NewRule(op CondOp, overlay *Style, operands ...*Expr) (*Rule, error) {
	r := &Rule{op: op, exprs: operands, overlay: overlay}
	if r.overlay == nil {
		r.overlay = NewEmptyStyle()
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rule) validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil rule", ErrInvalidRule)
	}
	if r.op < 0 || r.op > CondCustom {
		return fmt.Errorf("%w: unknown operator %d", ErrInvalidRule, int(r.op))
	}
	if len(r.exprs) != r.op.Operands() {
		return fmt.Errorf("%w: %s takes %d operand(s), got %d",
			ErrInvalidRule, r.op, r.op.Operands(), len(r.exprs))
	}
	for i, e := range r.exprs {
		if e == nil {
			return fmt.Errorf("%w: operand %d of %s is nil", ErrInvalidRule, i+1, r.op)
		}
	}
	return nil
}

// Op returns the rule's operator.
func (r *Rule) Op() CondOp { return r.op }

// Operands returns the operand expressions.
func (r *Rule) Operands() []*Expr { return append([]*Expr(nil), r.exprs...) }

// Overlay returns the style applied when the rule matches.
func (r *Rule) Overlay() *Style { return r.overlay }

// String formats the rule as "op(operands) -> overlay".
func (r *Rule) String() string {
	ops := make([]string, len(r.exprs))
	for i, e := range r.exprs {
		ops[i] = e.Text()
	}
	return fmt.Sprintf("%s(%s) -> %s", r.op, strings.Join(ops, ", "), r.overlay)
}

var conditionsSeq atomic.Uint32

// Conditions is an ordered list of conditional formatting rules. The first
// matching rule wins. Changing the list invalidates the overlay caches of
// every style that carries it.
type Conditions struct {
	rules   []*Rule
	version uint64
	id      uint32
}

// NewConditions creates an empty rule set.
func NewConditions() *Conditions {
	return &Conditions{id: conditionsSeq.Add(1) * 0x61c88647}
}

// Len returns the number of rules.
func (c *Conditions) Len() int { return len(c.rules) }

// Rules returns the rules in evaluation order.
func (c *Conditions) Rules() []*Rule { return append([]*Rule(nil), c.rules...) }

// Append adds r as the last rule.
func (c *Conditions) Append(r *Rule) error { return c.Insert(r, -1) }

// Insert adds r before position pos; a negative or out of range pos appends.
// A malformed rule is rejected with ErrInvalidRule and the set is unchanged.
func (c *Conditions) Insert(r *Rule, pos int) error {
	if err := r.validate(); err != nil {
		return err
	}
	if pos < 0 || pos >= len(c.rules) {
		c.rules = append(c.rules, r)
	} else {
		c.rules = append(c.rules[:pos], append([]*Rule{r}, c.rules[pos:]...)...)
	}
	c.version++
	return nil
}

// Overlay returns, for each rule in order, base merged with the rule's
// overlay. When the rule sets a background colour and the merged style has
// no fill pattern, the pattern is forced to solid so the colour shows.
func (c *Conditions) Overlay(base *Style) []*Style {
	out := make([]*Style, len(c.rules))
	for i, r := range c.rules {
		merged := Merge(base, r.overlay)
		if p, _ := merged.Pattern(); p == 0 && r.overlay.Has(ElemBackColor) {
			merged = merged.Dup().SetPattern(1).Build()
		}
		out[i] = merged
	}
	return out
}

// Eval tests the rules in order against the value at pos and returns the
// index of the first match. Rules after the first match are not evaluated.
func (c *Conditions) Eval(sh *Sheet, pos CellPos) (int, bool) {
	val := sh.valueAt(pos)
	ev := sh.evaluator()
	for i, r := range c.rules {
		if r.matches(ev, sh, pos, val) {
			return i, true
		}
	}
	return -1, false
}

func (r *Rule) operand(ev Evaluator, sh *Sheet, pos CellPos, i int) Value {
	return ev.Eval(r.exprs[i], sh, pos, 0)
}

func (r *Rule) matches(ev Evaluator, sh *Sheet, pos CellPos, val Value) bool {
	switch {
	case r.op == CondCustom:
		v := r.operand(ev, sh, pos, 0)
		return !v.IsError() && v.Bool()

	case r.op.isComparison():
		cmp := Compare(val, r.operand(ev, sh, pos, 0), false)
		switch r.op {
		case CondEqual:
			return cmp == Equal
		case CondNotEqual:
			return cmp != Equal
		case CondGreater:
			return cmp == Greater
		case CondLess:
			return cmp == Less
		case CondGreaterEqual:
			return cmp == Greater || cmp == Equal
		case CondLessEqual:
			return cmp == Less || cmp == Equal
		case CondBetween:
			if cmp == Less || cmp == TypeMismatch {
				return false
			}
			cmp = Compare(val, r.operand(ev, sh, pos, 1), false)
			return cmp == Less || cmp == Equal
		case CondNotBetween:
			if cmp == Less {
				return true
			}
			if cmp == TypeMismatch {
				return false
			}
			return Compare(val, r.operand(ev, sh, pos, 1), false) == Greater
		}

	case r.op.isError():
		return val.IsError() == (r.op == CondContainsErrors)

	case r.op.isString():
		if !val.IsString() {
			return false
		}
		switch r.op {
		case CondContainsBlanks:
			return strings.TrimSpace(val.Str()) == ""
		case CondNotContainsBlanks:
			return strings.TrimSpace(val.Str()) != ""
		}
		hay := foldString(val.Str())
		needle := foldString(r.operand(ev, sh, pos, 0).String())
		switch r.op {
		case CondContains:
			return strings.Contains(hay, needle)
		case CondNotContains:
			return !strings.Contains(hay, needle)
		case CondBeginsWith:
			return strings.HasPrefix(hay, needle)
		case CondNotBeginsWith:
			return !strings.HasPrefix(hay, needle)
		case CondEndsWith:
			return strings.HasSuffix(hay, needle)
		case CondNotEndsWith:
			return !strings.HasSuffix(hay, needle)
		}
	}
	return false
}
