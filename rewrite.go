package cellstyle

import (
	"strconv"
	"strings"
)

// ExprRewriter rewrites the references of a formula when cells move.
// Rewrite returns nil when the formula is unaffected.
type ExprRewriter interface {
	Rewrite(e *Expr, pos CellPos) *Expr
}

// ExprRewriterFunc adapts a function to ExprRewriter.
type ExprRewriterFunc func(e *Expr, pos CellPos) *Expr

// Rewrite calls f.
func (f ExprRewriterFunc) Rewrite(e *Expr, pos CellPos) *Expr { return f(e, pos) }

// RefShift moves references across an inserted or deleted band of rows or
// columns. N > 0 inserts N lines before At; N < 0 deletes -N lines starting
// at At. References into a deleted band become #REF!; ranges that only
// partly overlap it shrink.
type RefShift struct {
	Rows bool
	At   int
	N    int
}

// Rewrite implements ExprRewriter.
func (s RefShift) Rewrite(e *Expr, _ CellPos) *Expr {
	if e == nil || s.N == 0 {
		return nil
	}
	changed := false
	var out strings.Builder
	last := 0
	scanRefs(e.text, func(start, end int, r Range) {
		repl, ok := s.shiftRange(r)
		var text string
		switch {
		case !ok:
			text = refErrorText
		case repl == r:
			return
		default:
			text = formatRefLike(e.text[start:end], repl)
		}
		out.WriteString(e.text[last:start])
		out.WriteString(text)
		last = end
		changed = true
	})
	if !changed {
		return nil
	}
	out.WriteString(e.text[last:])
	ne, err := ParseExpr(out.String())
	if err != nil {
		return nil
	}
	return ne
}

// ShiftPos moves a single position; ok is false when it was deleted.
func (s RefShift) ShiftPos(p CellPos) (CellPos, bool) {
	line := &p.Col
	if s.Rows {
		line = &p.Row
	}
	switch {
	case *line < s.At:
	case s.N > 0:
		*line += s.N
	case *line < s.At-s.N:
		return p, false
	default:
		*line += s.N
	}
	return p, true
}

func (s RefShift) shiftRange(r Range) (Range, bool) {
	if s.N > 0 {
		a, _ := s.ShiftPos(r.Start)
		b, _ := s.ShiftPos(r.End)
		return Range{Start: a, End: b}, true
	}
	lo, hi := &r.Start.Col, &r.End.Col
	if s.Rows {
		lo, hi = &r.Start.Row, &r.End.Row
	}
	delEnd := s.At - s.N // exclusive
	switch {
	case *hi < s.At:
		return r, true
	case *lo >= s.At && *hi < delEnd:
		return r, false
	}
	if *lo >= delEnd {
		*lo += s.N
	} else if *lo > s.At {
		*lo = s.At
	}
	if *hi >= delEnd {
		*hi += s.N
	} else {
		*hi = s.At - 1
	}
	return r, true
}

// formatRefLike prints r keeping the '$' markers of the original text.
func formatRefLike(orig string, r Range) string {
	parts := strings.SplitN(orig, ":", 2)
	first := formatPosLike(parts[0], r.Start)
	if len(parts) == 1 && r.Start == r.End {
		return first
	}
	tmpl := parts[0]
	if len(parts) == 2 {
		tmpl = parts[1]
	}
	return first + ":" + formatPosLike(tmpl, r.End)
}

func formatPosLike(orig string, p CellPos) string {
	absCol := strings.HasPrefix(orig, "$")
	absRow := strings.Contains(strings.TrimPrefix(orig, "$"), "$")
	var b strings.Builder
	if absCol {
		b.WriteByte('$')
	}
	b.WriteString(ColToName(p.Col))
	if absRow {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(p.Row + 1))
	return b.String()
}
