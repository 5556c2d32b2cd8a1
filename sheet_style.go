package cellstyle

import "fmt"

// SheetStyles maps cell positions to styles. Equal styles are shared: the
// table keeps one linked Style per distinct content and counts its uses
// through the style's link count.
type SheetStyles struct {
	sheet  *Sheet
	auto   Color
	def    *Style
	styles map[CellPos]*Style
	table  map[uint32][]*Style
	merged map[*Style]*Style // cell style → default merged with it
}

func newSheetStyles(sh *Sheet, auto Color) *SheetStyles {
	return &SheetStyles{
		sheet:  sh,
		auto:   auto,
		styles: make(map[CellPos]*Style),
		table:  make(map[uint32][]*Style),
		merged: make(map[*Style]*Style),
	}
}

// AutoPatternColor returns the concrete colour automatic pattern and border
// colours resolve to on this sheet.
func (ss *SheetStyles) AutoPatternColor() Color { return ss.auto }

// Default returns the sheet's fully populated base style.
func (ss *SheetStyles) Default() *Style { return ss.def }

// Len returns the number of distinct styles in use, the default included.
func (ss *SheetStyles) Len() int {
	n := 0
	for _, bucket := range ss.table {
		n += len(bucket)
	}
	return n
}

// StyleAt returns the style set on pos itself, or nil.
func (ss *SheetStyles) StyleAt(col, row int) *Style {
	return ss.styles[NewCellPos(col, row)]
}

// StyleFor returns the fully populated style of a position: the sheet
// default merged with the style set on the cell.
func (ss *SheetStyles) StyleFor(col, row int) *Style {
	cs := ss.styles[NewCellPos(col, row)]
	if cs == nil {
		return ss.def
	}
	if m, ok := ss.merged[cs]; ok {
		return m
	}
	m := Merge(ss.def, cs)
	ss.merged[cs] = m
	return m
}

// intern links st to the sheet, sharing an equal style already in use.
func (ss *SheetStyles) intern(st *Style) *Style {
	linked := st.LinkToSheet(ss.sheet)
	h := linked.Hash()
	for _, cand := range ss.table[h] {
		if cand != linked && cand.Equal(linked) {
			linked.detach()
			_ = cand.Link()
			ss.sheet.log.WithField("style", cand.String()).Debug("style shared")
			return cand
		}
	}
	ss.table[h] = append(ss.table[h], linked)
	return linked
}

// forget drops a style whose last link went away.
func (ss *SheetStyles) forget(st *Style) {
	h := st.Hash()
	bucket := ss.table[h]
	for i, cand := range bucket {
		if cand == st {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(ss.table, h)
	} else {
		ss.table[h] = bucket
	}
	delete(ss.merged, st)
}

func (ss *SheetStyles) setDefault(st *Style) {
	ss.def = ss.intern(st)
}

// put replaces the style of one position; linked already carries the link
// for this position.
func (ss *SheetStyles) put(pos CellPos, linked *Style) {
	if old := ss.styles[pos]; old != nil {
		_ = old.Unlink()
	}
	if linked == nil {
		delete(ss.styles, pos)
	} else {
		ss.styles[pos] = linked
	}
	if c := ss.sheet.cells[pos]; c != nil {
		c.DropRenderedCache()
	}
}

// SetStyle gives every position of r the style st. A nil style clears the
// range back to the sheet default.
func (ss *SheetStyles) SetStyle(r Range, st *Style) error {
	if !r.Valid() {
		return fmt.Errorf("set style %s: %w", r, ErrInvalidRange)
	}
	if st == nil {
		r.Each(func(p CellPos) { ss.put(p, nil) })
		return nil
	}
	linked := ss.intern(st)
	if n := r.Width() * r.Height(); n > 1 {
		_ = linked.LinkMultiple(n - 1)
	}
	r.Each(func(p CellPos) { ss.put(p, linked) })
	return nil
}

// ApplyStyle merges overlay over the style of every position of r.
func (ss *SheetStyles) ApplyStyle(r Range, overlay *Style) error {
	if !r.Valid() {
		return fmt.Errorf("apply style %s: %w", r, ErrInvalidRange)
	}
	r.Each(func(p CellPos) {
		ss.put(p, ss.intern(Merge(ss.styles[p], overlay)))
	})
	return nil
}

// RangeConflicts returns what the positions of r have in common: the
// returned style holds every element on which they agree, and the set lists
// the elements on which they differ.
func (ss *SheetStyles) RangeConflicts(r Range) (*Style, ElementSet) {
	acc := NewStyleBuilder()
	var conflicts ElementSet
	r.Each(func(p CellPos) {
		conflicts = acc.FindConflicts(ss.StyleFor(p.Col, p.Row), conflicts)
	})
	for _, e := range conflicts.Elements() {
		acc.Unset(e)
	}
	return acc.Build(), conflicts
}

// shift moves styles across inserted or deleted lines.
func (ss *SheetStyles) shift(s RefShift) {
	moved := make(map[CellPos]*Style, len(ss.styles))
	for pos, st := range ss.styles {
		np, ok := s.ShiftPos(pos)
		if !ok {
			_ = st.Unlink()
			continue
		}
		moved[np] = st
	}
	ss.styles = moved
}
