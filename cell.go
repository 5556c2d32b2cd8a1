package cellstyle

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// zeroEpsilon is the magnitude below which IsZero treats a number as zero.
const zeroEpsilon = 1e-10

// arrayInfo places a cell inside an array formula. The corner (x == 0 and
// y == 0) holds the formula; members locate it by position.
type arrayInfo struct {
	x, y       int
	cols, rows int
	result     Value // corner only: the last evaluated array
}

// Cell is one spreadsheet cell. A cell is a plain value, a formula, the
// corner of an array formula, or a member of one.
//
// Cells are created by Sheet.FetchCell; a Cell obtained from Copy is
// detached and belongs to no sheet.
type Cell struct {
	pos    CellPos
	sheet  *Sheet
	value  Value
	expr   *Expr
	format *Format
	array  *arrayInfo

	rendered memo[string]

	linked     bool // registered with the sheet's dependents
	pending    bool // waiting for recalculation
	evaluating bool
}

// Pos returns the cell position.
func (c *Cell) Pos() CellPos { return c.pos }

// Sheet returns the owning sheet, or nil for a detached cell.
func (c *Cell) Sheet() *Sheet { return c.sheet }

// Value returns the current value. A formula that has not been evaluated
// yet holds #RECALC!.
func (c *Cell) Value() Value { return c.value }

// Expr returns the formula, or nil. Array members have no formula of their
// own; see ArrayCorner.
func (c *Cell) Expr() *Expr { return c.expr }

// HasExpr reports whether the cell holds a formula.
func (c *Cell) HasExpr() bool { return c.expr != nil }

// Format returns the number format set directly on the cell, or nil.
func (c *Cell) Format() *Format { return c.format }

// IsPending reports whether the cell waits for recalculation.
func (c *Cell) IsPending() bool { return c.pending }

// IsBlank reports whether the cell is empty or holds the empty string.
func (c *Cell) IsBlank() bool {
	return c.value.IsEmpty() || (c.value.IsString() && c.value.Str() == "")
}

// IsNumber reports whether the value is numeric; booleans count.
func (c *Cell) IsNumber() bool { return c.value.IsNumber() }

// IsZero reports whether the value is FALSE or a number within 1e-10 of zero.
func (c *Cell) IsZero() bool {
	switch c.value.Type() {
	case ValueBool:
		return !c.value.Bool()
	case ValueFloat:
		return math.Abs(c.value.Float()) < zeroEpsilon
	}
	return false
}

// IsError reports whether the value is an error.
func (c *Cell) IsError() bool { return c.value.IsError() }

// IsArray reports whether the cell belongs to an array formula.
func (c *Cell) IsArray() bool { return c.array != nil }

// IsArrayCorner reports whether the cell holds an array formula.
func (c *Cell) IsArrayCorner() bool {
	return c.array != nil && c.array.x == 0 && c.array.y == 0
}

// IsPartialArray reports whether the cell belongs to an array formula that
// spans more than one cell. Such cells cannot be changed on their own.
func (c *Cell) IsPartialArray() bool {
	return c.array != nil && (c.array.cols > 1 || c.array.rows > 1)
}

// ArrayBounds returns the range of the array formula the cell belongs to.
func (c *Cell) ArrayBounds() (Range, bool) {
	if c.array == nil {
		return Range{}, false
	}
	corner := c.pos.Offset(-c.array.x, -c.array.y)
	return Range{Start: corner, End: corner.Offset(c.array.cols-1, c.array.rows-1)}, true
}

// ArrayCorner returns the cell holding the array formula, looked up by
// position in the owning sheet.
func (c *Cell) ArrayCorner() *Cell {
	if c.array == nil {
		return nil
	}
	if c.IsArrayCorner() {
		return c
	}
	if c.sheet == nil {
		return nil
	}
	return c.sheet.CellAt(c.pos.Col-c.array.x, c.pos.Row-c.array.y)
}

func (c *Cell) checkPartial(op string) error {
	if !c.IsPartialArray() {
		return nil
	}
	if c.sheet != nil {
		c.sheet.log.WithField("cell", c.pos.String()).Warnf("%s rejected: cell is part of an array formula", op)
	}
	return fmt.Errorf("%s %s: %w", op, c.pos, ErrPartialArray)
}

// cleanout drops content and formula, unlinking first.
func (c *Cell) cleanout() {
	c.unlink()
	c.expr = nil
	c.array = nil
	c.value = Empty()
	c.format = nil
	c.pending = false
	c.rendered.reset()
}

func (c *Cell) link() {
	if c.sheet == nil || c.linked || (c.expr == nil && c.array == nil) {
		return
	}
	c.sheet.deps.Link(c)
	c.linked = true
}

func (c *Cell) unlink() {
	if c.sheet == nil || !c.linked {
		return
	}
	c.sheet.deps.Unlink(c)
	c.linked = false
}

func (c *Cell) queueRecalc() {
	if c.sheet == nil {
		return
	}
	c.pending = true
	c.sheet.deps.QueueRecalc(c)
}

// contentChanged marks the sheet dirty and tells the dependents.
func (c *Cell) contentChanged() {
	if c.sheet == nil {
		return
	}
	c.sheet.SetDirty(true)
	c.sheet.deps.Changed(c, true)
}

// SetValue replaces the content with v and the direct format with f (which
// may be nil). The cell is not re-rendered. Members of a multi-cell array
// formula are rejected with ErrPartialArray.
func (c *Cell) SetValue(v Value, f *Format) error {
	if err := c.checkPartial("set value"); err != nil {
		return err
	}
	c.cleanout()
	c.value = v
	c.format = f
	c.contentChanged()
	return nil
}

// AssignValue stores v and f without the array check and renders at once.
// The formula, if any, is kept: this is how evaluation results are stored.
func (c *Cell) AssignValue(v Value, f *Format) {
	c.value = v
	c.format = f
	c.Render()
}

// SetText parses text in the sheet's locale. A formula is installed with
// SetExpr; anything else becomes a literal value with the inferred format.
func (c *Cell) SetText(text string) error {
	if err := c.checkPartial("set text"); err != nil {
		return err
	}
	in := ParseInput(text, c.locale())
	if in.Expr != nil {
		return c.SetExpr(in.Expr, in.Format)
	}
	c.cleanout()
	c.value = in.Value
	c.format = in.Format
	c.contentChanged()
	return nil
}

// SetExpr installs e with format f. The value becomes #RECALC! until the
// formula is evaluated; the cell is linked and queued for recalculation.
func (c *Cell) SetExpr(e *Expr, f *Format) error {
	if err := c.checkPartial("set expression"); err != nil {
		return err
	}
	if e == nil {
		return ErrNoExpression
	}
	c.cleanout()
	c.expr = e
	c.format = f
	c.value = NewError(ErrorRecalc)
	c.link()
	c.queueRecalc()
	if c.sheet != nil {
		c.sheet.SetDirty(true)
		c.sheet.deps.Changed(c, true)
	}
	return nil
}

// SetExprAndValue installs e together with an already known value, as read
// from a file. Nothing is evaluated or rendered.
func (c *Cell) SetExprAndValue(e *Expr, v Value, f *Format) error {
	if err := c.checkPartial("set expression and value"); err != nil {
		return err
	}
	if e == nil {
		return ErrNoExpression
	}
	c.cleanout()
	c.expr = e
	c.value = v
	c.format = f
	c.link()
	if c.sheet != nil {
		c.sheet.SetDirty(true)
	}
	return nil
}

// Relocate is called after the cell moved. The formula is unlinked,
// rewritten by rw (nil keeps it), then linked again. A rewritten formula is
// queued for recalculation, and so is one that was pending before.
func (c *Cell) Relocate(rw ExprRewriter) {
	if c.expr == nil {
		return
	}
	wasPending := c.pending
	c.unlink()
	rewritten := false
	if rw != nil {
		if ne := rw.Rewrite(c.expr, c.pos); ne != nil {
			c.expr = ne
			c.rendered.reset()
			rewritten = true
		}
	}
	c.link()
	if rewritten && c.sheet != nil {
		c.sheet.log.WithFields(logrus.Fields{"cell": c.pos.String(), "expr": c.expr.String()}).
			Debug("formula rewritten")
	}
	if rewritten || wasPending {
		c.queueRecalc()
	}
}

// MakeValue turns a formula cell into a plain value holding its last result.
// On any cell of an array formula the whole array becomes plain values.
func (c *Cell) MakeValue() error {
	if c.array != nil {
		if corner := c.ArrayCorner(); corner != nil && corner.IsArrayCorner() {
			corner.demoteArray()
		} else {
			c.demote()
		}
		return nil
	}
	if c.expr == nil {
		return ErrNoExpression
	}
	c.demote()
	return nil
}

// demoteArray demotes the corner c and every member that still points at it.
func (c *Cell) demoteArray() {
	bounds, _ := c.ArrayBounds()
	corner := c.pos
	c.demote()
	if c.sheet == nil {
		return
	}
	bounds.Each(func(p CellPos) {
		m := c.sheet.CellAt(p.Col, p.Row)
		if m == nil || m.array == nil || m == c {
			return
		}
		if m.pos.Offset(-m.array.x, -m.array.y) == corner {
			m.demote()
		}
	})
}

func (c *Cell) demote() {
	c.unlink()
	c.expr = nil
	c.array = nil
	c.pending = false
	if c.sheet != nil {
		c.sheet.SetDirty(true)
	}
}

// Eval evaluates the cell now and returns its value. Plain values are
// returned as is. Evaluating any cell of an array formula evaluates the
// corner and distributes the result over all members.
func (c *Cell) Eval() Value {
	if c.sheet == nil {
		return c.value
	}
	c.pending = false
	switch {
	case c.IsArrayCorner():
		c.evaluateArray()
	case c.array != nil:
		corner := c.ArrayCorner()
		if corner == nil || !corner.IsArrayCorner() {
			c.AssignValue(NewError(ErrorRef), c.format)
			break
		}
		if corner.pending || corner.array.result.IsEmpty() {
			corner.Eval()
		} else {
			c.AssignValue(corner.array.result.At(c.array.x, c.array.y), c.format)
		}
	case c.expr != nil:
		if c.evaluating {
			return c.value
		}
		c.evaluating = true
		v := c.sheet.evaluator().Eval(c.expr, c.sheet, c.pos, 0)
		c.evaluating = false
		c.AssignValue(v, c.format)
	}
	return c.value
}

func (c *Cell) evaluateArray() {
	if c.evaluating {
		return
	}
	c.evaluating = true
	res := c.sheet.evaluator().Eval(c.expr, c.sheet, c.pos, EvalPermitNonScalar)
	c.evaluating = false
	c.array.result = res
	c.AssignValue(res.At(0, 0), c.format)
	for dy := 0; dy < c.array.rows; dy++ {
		for dx := 0; dx < c.array.cols; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			m := c.sheet.CellAt(c.pos.Col+dx, c.pos.Row+dy)
			if m == nil || m.array == nil {
				continue
			}
			m.pending = false
			m.AssignValue(res.At(dx, dy), m.format)
		}
	}
}

func (c *Cell) locale() language.Tag {
	if c.sheet == nil {
		return language.AmericanEnglish
	}
	return c.sheet.locale
}

func (c *Cell) printer() *message.Printer {
	if c.sheet == nil {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return c.sheet.printer
}

// EffectiveFormat is the direct format if set, else the number format of
// the cell's style, else General.
func (c *Cell) EffectiveFormat() *Format {
	if c.format != nil {
		return c.format
	}
	if c.sheet != nil {
		if f, ok := c.sheet.Styles().StyleFor(c.pos.Col, c.pos.Row).Format(); ok && f != nil {
			return f
		}
	}
	return GeneralFormat()
}

// Render formats the value now and caches the text.
func (c *Cell) Render() string {
	c.rendered.reset()
	return c.RenderedText()
}

// RenderedText returns the cached rendering, rendering first if needed.
func (c *Cell) RenderedText() string {
	return c.rendered.get(func() string {
		return c.EffectiveFormat().Render(c.value, c.printer())
	})
}

// IsRendered reports whether a rendering is cached.
func (c *Cell) IsRendered() bool { return c.rendered.valid() }

// DropRenderedCache forgets the cached rendering.
func (c *Cell) DropRenderedCache() { c.rendered.reset() }

// Copy returns a detached duplicate sharing the formula. The copy belongs
// to no sheet and is neither linked nor queued.
func (c *Cell) Copy() *Cell {
	dup := &Cell{
		pos:      c.pos,
		value:    c.value,
		expr:     c.expr,
		format:   c.format,
		rendered: c.rendered,
	}
	if c.array != nil {
		a := *c.array
		dup.array = &a
	}
	return dup
}

// String formats the cell as "A1=value" or "A1=formula".
func (c *Cell) String() string {
	switch {
	case c.expr != nil:
		return fmt.Sprintf("%s%s", c.pos, c.expr)
	case c.array != nil:
		return fmt.Sprintf("%s{member of %s}", c.pos, c.pos.Offset(-c.array.x, -c.array.y))
	}
	return fmt.Sprintf("%s=%s", c.pos, c.value)
}
