package cellstyle

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var defaultEvaluator = NewExprEvaluator()

// Sheet owns a sparse grid of cells, their styles, the formula evaluator
// and the dependency tracker. A Sheet is not safe for concurrent use.
type Sheet struct {
	name    string
	cells   map[CellPos]*Cell
	styles  *SheetStyles
	deps    Dependents
	eval    Evaluator
	log     logrus.FieldLogger
	locale  language.Tag
	printer *message.Printer
	dirty   bool
}

// NewSheet creates an empty sheet.
func NewSheet(name string, opts ...SheetOption) *Sheet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	s := &Sheet{
		name:    name,
		cells:   make(map[CellPos]*Cell),
		deps:    o.dependents,
		eval:    o.evaluator,
		log:     o.logger.WithField("sheet", name),
		locale:  o.locale,
		printer: message.NewPrinter(o.locale),
	}
	if s.deps == nil {
		g := NewDepGraph()
		g.SetLogger(s.log)
		s.deps = g
	}
	if s.eval == nil {
		s.eval = defaultEvaluator
	}
	s.styles = newSheetStyles(s, o.autoPattern)
	def := NewDefaultStyle()
	if o.defaultStyle != nil {
		def = Merge(def, o.defaultStyle)
	}
	s.styles.setDefault(def)
	return s
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// Locale returns the locale used for input parsing and rendering.
func (s *Sheet) Locale() language.Tag { return s.locale }

// Logger returns the sheet's logger.
func (s *Sheet) Logger() logrus.FieldLogger { return s.log }

// Styles returns the sheet's style table.
func (s *Sheet) Styles() *SheetStyles { return s.styles }

// Dependents returns the dependency tracker.
func (s *Sheet) Dependents() Dependents { return s.deps }

// Evaluator returns the formula evaluator.
func (s *Sheet) Evaluator() Evaluator { return s.eval }

func (s *Sheet) evaluator() Evaluator {
	if s == nil || s.eval == nil {
		return defaultEvaluator
	}
	return s.eval
}

// IsDirty reports whether the sheet changed since SetDirty(false).
func (s *Sheet) IsDirty() bool { return s.dirty }

// SetDirty sets the dirty flag.
func (s *Sheet) SetDirty(dirty bool) { s.dirty = dirty }

// FetchCell returns the cell at (col, row), creating an empty one if needed.
func (s *Sheet) FetchCell(col, row int) *Cell {
	pos := NewCellPos(col, row)
	if c, ok := s.cells[pos]; ok {
		return c
	}
	c := &Cell{pos: pos, sheet: s}
	s.cells[pos] = c
	return c
}

// CellAt returns the cell at (col, row), or nil.
func (s *Sheet) CellAt(col, row int) *Cell {
	return s.cells[NewCellPos(col, row)]
}

// RemoveCell deletes the cell at (col, row). Its formula is unlinked first
// and the cells reading it are queued for recalculation.
func (s *Sheet) RemoveCell(col, row int) {
	pos := NewCellPos(col, row)
	c := s.cells[pos]
	if c == nil {
		return
	}
	c.unlink()
	delete(s.cells, pos)
	s.SetDirty(true)
	s.deps.Changed(c, true)
	c.sheet = nil
	c.pending = false
}

// Len returns the number of cells.
func (s *Sheet) Len() int { return len(s.cells) }

// Cells returns all cells in row-major order.
func (s *Sheet) Cells() []*Cell {
	out := make([]*Cell, 0, len(s.cells))
	for _, c := range s.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].pos, out[j].pos
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return out
}

// UsedRange returns the smallest range covering every cell.
func (s *Sheet) UsedRange() (Range, bool) {
	if len(s.cells) == 0 {
		return Range{}, false
	}
	first := true
	var r Range
	for pos := range s.cells {
		if first {
			r = SingleCell(pos)
			first = false
			continue
		}
		r.Start.Col = min(r.Start.Col, pos.Col)
		r.Start.Row = min(r.Start.Row, pos.Row)
		r.End.Col = max(r.End.Col, pos.Col)
		r.End.Row = max(r.End.Row, pos.Row)
	}
	return r, true
}

// valueAt returns the value at pos, evaluating a pending formula first.
// A nil sheet reads as empty.
func (s *Sheet) valueAt(pos CellPos) Value {
	if s == nil {
		return Empty()
	}
	c := s.cells[pos]
	if c == nil {
		return Empty()
	}
	if c.pending && !c.evaluating {
		c.Eval()
	}
	return c.value
}

// ValueAt returns the value at (col, row), evaluating it if it is pending.
func (s *Sheet) ValueAt(col, row int) Value {
	return s.valueAt(NewCellPos(col, row))
}

// SetArrayFormula installs e as one array formula over r. The top-left
// cell holds the formula; the other cells become members. With
// queueRecalc, the members are queued first and the corner last, so the
// corner is at the head of the recalculation queue.
func (s *Sheet) SetArrayFormula(r Range, e *Expr, queueRecalc bool) error {
	if !r.Valid() {
		return fmt.Errorf("set array formula %s: %w", r, ErrInvalidRange)
	}
	if e == nil {
		return fmt.Errorf("set array formula %s: %w", r, ErrNoExpression)
	}
	for pos, c := range s.cells {
		if !r.Contains(pos) || c.array == nil {
			continue
		}
		if b, _ := c.ArrayBounds(); !r.ContainsRange(b) {
			return fmt.Errorf("set array formula %s over %s: %w", r, b, ErrArraySplit)
		}
	}

	cols, rows := r.Width(), r.Height()
	corner := s.FetchCell(r.Start.Col, r.Start.Row)
	var members []*Cell
	r.Each(func(p CellPos) {
		c := s.FetchCell(p.Col, p.Row)
		c.cleanout()
		c.array = &arrayInfo{x: p.Col - r.Start.Col, y: p.Row - r.Start.Row, cols: cols, rows: rows}
		if c != corner {
			members = append(members, c)
		}
	})
	corner.expr = e
	corner.value = NewError(ErrorRecalc)

	for _, c := range members {
		s.deps.Changed(c, true)
	}
	s.deps.Changed(corner, true)
	for _, c := range members {
		c.link()
		if queueRecalc {
			c.queueRecalc()
		}
	}
	corner.link()
	if queueRecalc {
		corner.queueRecalc()
	}
	s.SetDirty(true)
	s.log.WithFields(logrus.Fields{"range": r.String(), "expr": e.String()}).Debug("array formula installed")
	return nil
}

// Recalc evaluates every pending cell and returns how many were evaluated.
func (s *Sheet) Recalc() int {
	if g, ok := s.deps.(*DepGraph); ok {
		return g.Recalc()
	}
	n := 0
	for _, c := range s.Cells() {
		if c.pending {
			c.Eval()
			n++
		}
	}
	return n
}

// EffectiveStyle returns the style a position is drawn with: its full style,
// or the overlay of the first matching conditional rule.
func (s *Sheet) EffectiveStyle(col, row int) *Style {
	base := s.styles.StyleFor(col, row)
	conds, ok := base.Conditions()
	if !ok || conds == nil || conds.Len() == 0 {
		return base
	}
	idx, ok := conds.Eval(s, NewCellPos(col, row))
	if !ok {
		return base
	}
	return base.Overlays()[idx]
}

// InsertRows inserts n empty rows before row at.
func (s *Sheet) InsertRows(at, n int) error {
	return s.shift(RefShift{Rows: true, At: at, N: n})
}

// DeleteRows deletes n rows starting at row at.
func (s *Sheet) DeleteRows(at, n int) error {
	return s.shift(RefShift{Rows: true, At: at, N: -n})
}

// InsertCols inserts n empty columns before column at.
func (s *Sheet) InsertCols(at, n int) error {
	return s.shift(RefShift{At: at, N: n})
}

// DeleteCols deletes n columns starting at column at.
func (s *Sheet) DeleteCols(at, n int) error {
	return s.shift(RefShift{At: at, N: -n})
}

func (s *Sheet) shift(sh RefShift) error {
	if sh.N == 0 || sh.At < 0 {
		return fmt.Errorf("shift at %d by %d: %w", sh.At, sh.N, ErrInvalidRange)
	}
	if err := s.checkArraySplit(sh); err != nil {
		return err
	}

	if sh.N < 0 {
		for pos := range s.cells {
			if _, ok := sh.ShiftPos(pos); !ok {
				s.RemoveCell(pos.Col, pos.Row)
			}
		}
	}
	moved := make(map[CellPos]*Cell, len(s.cells))
	for pos, c := range s.cells {
		np, _ := sh.ShiftPos(pos)
		c.pos = np
		moved[np] = c
	}
	s.cells = moved
	s.styles.shift(sh)

	// corners last so they end up at the head of the queue
	var corners []*Cell
	for _, c := range s.Cells() {
		switch {
		case c.IsArrayCorner():
			corners = append(corners, c)
		case c.expr != nil:
			c.Relocate(sh)
		case c.array != nil:
			wasPending := c.pending
			c.unlink()
			c.link()
			if wasPending {
				c.queueRecalc()
			}
		}
	}
	for _, c := range corners {
		c.Relocate(sh)
	}
	s.SetDirty(true)
	s.log.WithFields(logrus.Fields{"rows": sh.Rows, "at": sh.At, "n": sh.N}).Debug("cells shifted")
	return nil
}

// checkArraySplit rejects a shift that would cut through an array formula.
func (s *Sheet) checkArraySplit(sh RefShift) error {
	for _, c := range s.cells {
		if !c.IsArrayCorner() || !c.IsPartialArray() {
			continue
		}
		b, _ := c.ArrayBounds()
		lo, hi := b.Start.Col, b.End.Col
		if sh.Rows {
			lo, hi = b.Start.Row, b.End.Row
		}
		var split bool
		if sh.N > 0 {
			split = lo < sh.At && sh.At <= hi
		} else {
			end := sh.At - sh.N
			overlaps := lo < end && hi >= sh.At
			covered := lo >= sh.At && hi < end
			split = overlaps && !covered
		}
		if split {
			return fmt.Errorf("shift at %d by %d over %s: %w", sh.At, sh.N, b, ErrArraySplit)
		}
	}
	return nil
}
